// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bsptree

import "github.com/qbsptools/bsptools/brush"

// splitPenalty and balancePenalty weight the splitter score: prefer
// planes that split few faces, and among ties prefer ones that divide the
// remaining faces evenly.
const (
	splitPenalty   = 10
	balancePenalty = 1
	maxCandidates  = 64 // cap scoring cost on very large face sets; see choosePlane.
)

// choosePlane scores a subset of candidate face planes and returns the
// index of the best one to split on (lowest score; the first candidate
// wins ties). The score does not consider whether a plane is axial.
func choosePlane(faces []*brush.OutputFace) int {
	best, bestScore := 0, -1
	n := len(faces)
	step := 1
	if n > maxCandidates {
		step = n / maxCandidates
	}
	for i := 0; i < n; i += step {
		score := scorePlane(faces, i)
		if bestScore == -1 || score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

func scorePlane(faces []*brush.OutputFace, idx int) int {
	p := &faces[idx].Plane
	front, back, split := 0, 0, 0
	for i, f := range faces {
		if i == idx {
			continue
		}
		switch classifyFace(f, p) {
		case sideFront:
			front++
		case sideBack:
			back++
		case sideSplit:
			split++
		}
	}
	balance := front - back
	if balance < 0 {
		balance = -balance
	}
	return split*splitPenalty + balance*balancePenalty
}
