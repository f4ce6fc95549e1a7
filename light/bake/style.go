// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package bake

import "github.com/qbsptools/bsptools/geom"

// MaxStyles is the classic 4-style-per-face limit; LMSTYLE16 lifts
// this to 16 but that BSPX path is not yet produced by this package.
const MaxStyles = 4

// styleBuffer accumulates one light style's contribution across a face's
// luxel grid.
type styleBuffer struct {
	style int
	color []geom.Vec3 // parallel to the grid's luxel slice.
}

// StyleTable owns every style buffer touched while integrating one face,
// style 0 always present as the "always on" bucket.
type StyleTable struct {
	n    int
	bufs []*styleBuffer
}

// NewStyleTable allocates a style-0 buffer sized for n luxels.
func NewStyleTable(n int) *StyleTable {
	t := &StyleTable{n: n}
	t.bufs = append(t.bufs, &styleBuffer{style: 0, color: make([]geom.Vec3, n)})
	return t
}

// bufferFor returns the accumulation buffer for a style, allocating one on
// first use.
func (t *StyleTable) bufferFor(style int) *styleBuffer {
	for _, b := range t.bufs {
		if b.style == style {
			return b
		}
	}
	nb := &styleBuffer{style: style, color: make([]geom.Vec3, t.n)}
	t.bufs = append(t.bufs, nb)
	return nb
}

// Add accumulates contribution into luxel i of the given style.
func (t *StyleTable) Add(style, i int, contribution geom.Vec3) {
	b := t.bufferFor(style)
	b.color[i].Add(&b.color[i], &contribution)
}

// averageBrightness is the mean luminance of a style buffer, used to rank
// styles for eviction.
func (b *styleBuffer) averageBrightness() float64 {
	sum := 0.0
	for _, c := range b.color {
		sum += luminance(c)
	}
	if len(b.color) == 0 {
		return 0
	}
	return sum / float64(len(b.color))
}

func luminance(c geom.Vec3) float64 {
	return 0.299*c.X + 0.587*c.Y + 0.114*c.Z
}

// EvictOverflow drops every style past MaxStyles, keeping style 0 plus the
// MaxStyles-1 brightest switchable styles, and returns the names of styles
// it dropped so the caller can log a warning.
func (t *StyleTable) EvictOverflow() (dropped []int) {
	if len(t.bufs) <= MaxStyles {
		return nil
	}
	switchable := make([]*styleBuffer, 0, len(t.bufs)-1)
	for _, b := range t.bufs {
		if b.style != 0 {
			switchable = append(switchable, b)
		}
	}
	for len(t.bufs) > MaxStyles {
		worst := 0
		for i := 1; i < len(switchable); i++ {
			if switchable[i].averageBrightness() < switchable[worst].averageBrightness() {
				worst = i
			}
		}
		dropped = append(dropped, switchable[worst].style)
		t.removeStyle(switchable[worst].style)
		switchable = append(switchable[:worst], switchable[worst+1:]...)
	}
	return dropped
}

func (t *StyleTable) removeStyle(style int) {
	for i, b := range t.bufs {
		if b.style == style {
			t.bufs = append(t.bufs[:i], t.bufs[i+1:]...)
			return
		}
	}
}

// Styles returns the surviving style numbers in insertion order (style 0
// first), truncated/padded to MaxStyles entries with -1 for unused slots,
// matching the on-disk Face.Styles layout.
func (t *StyleTable) Styles() [4]int8 {
	out := [4]int8{-1, -1, -1, -1}
	for i, b := range t.bufs {
		if i >= MaxStyles {
			break
		}
		out[i] = int8(b.style)
	}
	return out
}

// Color returns luxel i's color for the style at table slot idx, or the
// zero vector if that slot is unused.
func (t *StyleTable) Color(idx, i int) geom.Vec3 {
	if idx >= len(t.bufs) {
		return geom.Vec3{}
	}
	return t.bufs[idx].color[i]
}
