// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package assemble flattens a bsptree.Node tree into the flat, index-based
// lump arrays bspfile.File stores on disk: planes, vertices, edges,
// texinfo, faces, nodes, leafs and marksurfaces. It also runs the facepp
// post-processing passes (merge, subdivide, t-junction fixup) on each
// node's on-plane faces before flattening them, since those faces are
// exactly the coplanar set each pass operates on.
package assemble

import (
	"math"
	"strings"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/bspfile"
	"github.com/qbsptools/bsptools/bsptree"
	"github.com/qbsptools/bsptools/facepp"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
	"github.com/qbsptools/bsptools/mapfile"
)

const vertexQuantum = 1.0 / 8

// builder accumulates the flat lump arrays while walking the tree once.
type builder struct {
	file        *bspfile.File
	def         gamedef.GameDef
	planeIndex  map[planeKey]int32
	vertIndex   map[vertKey]int32
	texIndex    map[texKey]int32
	edgeIndex   map[edgeKey]int32
}

type planeKey struct{ nx, ny, nz, d int64 }
type vertKey struct{ x, y, z int64 }
type texKey struct {
	s, t                       [4]int64
	nativeFlags, extFlags      uint32
	name                       string
}
type edgeKey struct{ a, b uint32 }

func quantize(v float64) int64 { return int64(math.Round(v / vertexQuantum)) }

// ModelInput is one brush model's BSP tree plus the clip hulls and origin
// that belong with it: the world entity (worldspawn, with func_detail and
// func_group brushes merged in) supplies hulls built by bsptree.BuildHulls
// and a zero Origin; every other brush entity (func_door, func_rotate, ...)
// supplies its own small tree with no separate clip hulls, since only the
// world needs player/monster collision geometry split out from the
// point-trace visible tree, and the origin brush.ExtractOrigin pulled out
// of its brushes before the tree was built.
type ModelInput struct {
	Root   *bsptree.Node
	Hulls  []bsptree.ClipHull
	Origin geom.Vec3
}

// Assemble builds a complete bspfile.File from one BSP tree per brush
// model plus the entity text block qbsp carries through unmodified.
// models[0] is the world model; bspfile.Model order matches models order,
// which is also the order *model keys (e.g. "*1") need to resolve against
// when patched back into the entity lump by the caller.
func Assemble(models []ModelInput, def gamedef.GameDef, entities string) *bspfile.File {
	b := &builder{
		file:       &bspfile.File{Dialect: def.DefaultDialect, Entities: entities, BSPX: map[string][]byte{}},
		def:        def,
		planeIndex: map[planeKey]int32{},
		vertIndex:  map[vertKey]int32{},
		texIndex:   map[texKey]int32{},
		edgeIndex:  map[edgeKey]int32{},
	}
	b.file.Edges = append(b.file.Edges, bspfile.Edge{}) // edge 0 is reserved, per the original format's dummy first entry.
	for _, m := range models {
		first := int32(len(b.file.Faces))
		head := b.build(m.Root, nil)
		b.file.Models = append(b.file.Models, bspfile.Model{
			HeadNode:  b.headNodes(head, m.Hulls),
			Origin:    [3]float32{float32(m.Origin.X), float32(m.Origin.Y), float32(m.Origin.Z)},
			FirstFace: first,
			NumFaces:  int32(len(b.file.Faces)) - first,
		})
	}
	return b.file
}

// headNodes fills the per-model hull head array: hull 0 is the visible
// tree's own root, hulls 1..N-1 are flattened from the corresponding
// ClipHull (falling back to the visible tree's root if a game defines
// fewer hulls than gamedef.MaxHulls).
func (b *builder) headNodes(world int32, hulls []bsptree.ClipHull) [gamedef.MaxHulls]int32 {
	var h [gamedef.MaxHulls]int32
	h[0] = world
	for i := 1; i < gamedef.MaxHulls; i++ {
		if i-1 >= len(hulls) || hulls[i-1].Root == nil {
			h[i] = world
			continue
		}
		h[i] = b.buildClipNode(hulls[i-1].Root)
	}
	return h
}

// buildClipNode flattens one ClipHull subtree into the ClipNodes lump,
// returning a non-negative ClipNode index for an interior node or a
// negative native content constant for a leaf, per the classic clipnode
// child-reference convention (distinct from the visible tree's
// -(leaf+1) convention since clip hulls have no separate leaf array).
func (b *builder) buildClipNode(n *bsptree.Node) int32 {
	if n.IsLeaf() {
		return clipContentCode(n.Leaf.Contents)
	}
	planeIdx := b.internPlane(n.Plane)
	frontRef := b.buildClipNode(n.Front)
	backRef := b.buildClipNode(n.Back)
	idx := int32(len(b.file.ClipNodes))
	b.file.ClipNodes = append(b.file.ClipNodes, bspfile.ClipNode{PlaneNum: planeIdx, Children: [2]int32{frontRef, backRef}})
	return idx
}

// clipContentCode maps a leaf's contents to the small negative constant
// clipnodes use in place of a leaf index: -1 empty, -2 solid/sky,
// -3 water, -4 slime, -5 lava.
func clipContentCode(c gamedef.Contents) int32 {
	switch {
	case c&(gamedef.ContentsSolid|gamedef.ContentsSky) != 0:
		return -2
	case c&gamedef.ContentsWater != 0:
		return -3
	case c&gamedef.ContentsSlime != 0:
		return -4
	case c&gamedef.ContentsLava != 0:
		return -5
	default:
		return -1
	}
}

// build recursively flattens one subtree, returning the Quake-convention
// child reference: a non-negative node index, or -(leaf+1).
func (b *builder) build(n *bsptree.Node, visible []int32) int32 {
	if n.IsLeaf() {
		return b.buildLeaf(n.Leaf, visible)
	}
	return b.buildNode(n, visible)
}

func (b *builder) buildNode(n *bsptree.Node, visible []int32) int32 {
	planeIdx := b.internPlane(n.Plane)

	faces := facepp.MergeCoplanar(toFacePP(n.Faces))
	faces = facepp.Subdivide(faces, facepp.DefaultSubdivideSize, func(f *facepp.Face) bool {
		name := strings.ToLower(f.Info.TextureName) // sky and liquid surfaces stay whole.
		return strings.HasPrefix(name, "sky") || strings.HasPrefix(name, "*")
	})
	faces = facepp.FixTJunctions(faces, bsptree.Epsilon)

	first := int32(len(b.file.Faces))
	var frontVisible, backVisible []int32
	frontVisible = append(frontVisible, visible...)
	backVisible = append(backVisible, visible...)
	for i := range faces {
		idx, side := b.appendFace(&faces[i], n.Plane, planeIdx)
		if side == 0 {
			frontVisible = append(frontVisible, idx)
		} else {
			backVisible = append(backVisible, idx)
		}
	}

	frontRef := b.build(n.Front, frontVisible)
	backRef := b.build(n.Back, backVisible)

	b.file.Nodes = append(b.file.Nodes, bspfile.Node{
		PlaneNum:  planeIdx,
		Children:  [2]int32{frontRef, backRef},
		FirstFace: uint32(first),
		NumFaces:  uint32(len(b.file.Faces)) - uint32(first),
	})
	return int32(len(b.file.Nodes) - 1)
}

func (b *builder) buildLeaf(leaf *bsptree.Leaf, visible []int32) int32 {
	first := int32(len(b.file.MarkSurfaces))
	b.file.MarkSurfaces = append(b.file.MarkSurfaces, visible...)
	mins, maxs := boundsToShort(leaf.Bounds)
	b.file.Leafs = append(b.file.Leafs, bspfile.Leaf{
		Contents:      b.def.ContentsToNative(leaf.Contents),
		VisOfs:        -1,
		Mins:          mins,
		Maxs:          maxs,
		FirstMarkSurf: uint32(first),
		NumMarkSurf:   uint32(len(visible)),
	})
	return -(int32(len(b.file.Leafs)-1) + 1)
}

// appendFace converts one post-processed face to disk form and returns its
// index plus the side (0 = matches the node's own plane orientation, 1 =
// the face sits on the node's plane but faces the opposite way — two
// brushes meeting back to back on the same splitting plane).
func (b *builder) appendFace(f *facepp.Face, nodePlane *geom.Plane, planeIdx int32) (idx int32, side int32) {
	if !f.Plane.NearlyEquals(nodePlane, bsptree.Epsilon, 1e-5) {
		side = 1
	}
	firstEdge := int32(len(b.file.SurfEdges))
	for i := range f.Winding {
		v0 := f.Winding[i]
		v1 := f.Winding[(i+1)%len(f.Winding)]
		se := b.internEdge(v0, v1)
		b.file.SurfEdges = append(b.file.SurfEdges, se)
	}
	texIdx := b.internTexInfo(&f.Info)
	disk := bspfile.Face{
		PlaneNum:  planeIdx,
		Side:      side,
		FirstEdge: firstEdge,
		NumEdges:  int32(len(f.Winding)),
		TexInfo:   texIdx,
		Styles:    [4]uint8{0, 255, 255, 255}, // style 0 plus "unused" per the original dface_t convention; light fills these in.
		LightOfs:  -1,
	}
	b.file.Faces = append(b.file.Faces, disk)
	return int32(len(b.file.Faces) - 1), side
}

func (b *builder) internPlane(p *geom.Plane) int32 {
	key := planeKey{quantize(p.Normal.X), quantize(p.Normal.Y), quantize(p.Normal.Z), quantize(p.Dist)}
	if idx, ok := b.planeIndex[key]; ok {
		return idx
	}
	idx := int32(len(b.file.Planes))
	b.file.Planes = append(b.file.Planes, bspfile.Plane{
		Normal:   [3]float32{float32(p.Normal.X), float32(p.Normal.Y), float32(p.Normal.Z)},
		Dist:     float32(p.Dist),
		AxisType: axisType(&p.Normal),
	})
	b.planeIndex[key] = idx
	return idx
}

// axisType is the fast-path classification qbsp's sampling code uses: 0-2
// for an axis-aligned plane matching X/Y/Z exactly, 3-5 for the nearest
// axis otherwise.
func axisType(n *geom.Vec3) int32 {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax == 1:
		return 0
	case ay == 1:
		return 1
	case az == 1:
		return 2
	case ax >= ay && ax >= az:
		return 3
	case ay >= ax && ay >= az:
		return 4
	default:
		return 5
	}
}

func (b *builder) internVertex(v geom.Vec3) int32 {
	key := vertKey{quantize(v.X), quantize(v.Y), quantize(v.Z)}
	if idx, ok := b.vertIndex[key]; ok {
		return idx
	}
	idx := int32(len(b.file.Vertexes))
	b.file.Vertexes = append(b.file.Vertexes, bspfile.Vertex{Point: [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}})
	b.vertIndex[key] = idx
	return idx
}

// internEdge dedupes an undirected vertex pair and returns a signed
// surfedge: positive when traversed v0->v1 matches the stored edge's
// direction, negative (the original format's convention) when reversed.
func (b *builder) internEdge(v0, v1 geom.Vec3) int32 {
	i0 := uint32(b.internVertex(v0))
	i1 := uint32(b.internVertex(v1))
	if i0 == i1 {
		return 0
	}
	forward := i0 < i1
	key := edgeKey{i0, i1}
	if !forward {
		key = edgeKey{i1, i0}
	}
	idx, ok := b.edgeIndex[key]
	if !ok {
		idx = int32(len(b.file.Edges))
		b.file.Edges = append(b.file.Edges, bspfile.Edge{V: [2]uint32{key.a, key.b}})
		b.edgeIndex[key] = idx
	}
	if forward {
		return idx
	}
	return -idx
}

// internTexInfo dedupes a texture projection by value, registering a
// placeholder MipTexture entry the first time a texture name is seen.
func (b *builder) internTexInfo(ti *mapfile.TexInfo) int32 {
	key := texKey{
		s:           [4]int64{quantize(ti.S.X), quantize(ti.S.Y), quantize(ti.S.Z), quantize(ti.S.W)},
		t:           [4]int64{quantize(ti.T.X), quantize(ti.T.Y), quantize(ti.T.Z), quantize(ti.T.W)},
		nativeFlags: ti.NativeFlags,
		extFlags:    ti.ExtFlags,
		name:        ti.TextureName,
	}
	if idx, ok := b.texIndex[key]; ok {
		return idx
	}
	idx := int32(len(b.file.TexInfo))
	b.file.TexInfo = append(b.file.TexInfo, bspfile.TexInfo{
		S:      [4]float32{float32(ti.S.X), float32(ti.S.Y), float32(ti.S.Z), float32(ti.S.W)},
		T:      [4]float32{float32(ti.T.X), float32(ti.T.Y), float32(ti.T.Z), float32(ti.T.W)},
		MipTex: b.internTexture(ti.TextureName),
		Flags:  int32(ti.NativeFlags),
	})
	b.texIndex[key] = idx
	return idx
}

func (b *builder) internTexture(name string) int32 {
	for i, m := range b.file.Textures {
		if m.Name == name {
			return int32(i)
		}
	}
	idx := int32(len(b.file.Textures))
	b.file.Textures = append(b.file.Textures, bspfile.MipTexture{Name: name})
	return idx
}

func boundsToShort(a geom.AABB) (mins, maxs [3]int16) {
	mins = [3]int16{int16(a.Min.X), int16(a.Min.Y), int16(a.Min.Z)}
	maxs = [3]int16{int16(a.Max.X), int16(a.Max.Y), int16(a.Max.Z)}
	return
}

func toFacePP(faces []*brush.OutputFace) []facepp.Face {
	out := make([]facepp.Face, len(faces))
	for i, f := range faces {
		entityIndex := 0
		if f.Owner != nil {
			entityIndex = f.Owner.EntityIndex
		}
		out[i] = facepp.Face{Face: f.Face, EntityIndex: entityIndex}
	}
	return out
}
