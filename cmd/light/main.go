// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command light bakes static lighting into a compiled .bsp's lighting lump:
// it reads the level's faces and entity lights, samples a
// luxel grid per face, integrates every light source with shadow testing
// against the level geometry, applies dirtmapping and minlight, and writes
// the result back as paletted or RGB-native lighting data.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/bspfile"
	"github.com/qbsptools/bsptools/facepp"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/gamedef"
	"github.com/qbsptools/bsptools/internal/toolconfig"
	"github.com/qbsptools/bsptools/light/bake"
	"github.com/qbsptools/bsptools/light/sample"
	"github.com/qbsptools/bsptools/light/source"
	"github.com/qbsptools/bsptools/mapfile"
	"github.com/qbsptools/bsptools/rayservice"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type flags struct {
	config     string
	extra      int
	gamma      float64
	rangeScale float64
	addMin     bool
	dirt       bool
	noDirt     bool
	dirtDepth  float64
	dirtScale  float64
	dirtGain   float64
	dirtAngle  float64
	bounce     int
	hdr        bool
	lit        bool
	lux        bool
	worldUnits float64
}

func run(args []string) int {
	fs := flag.NewFlagSet("light", flag.ContinueOnError)
	f := flags{}
	fs.StringVar(&f.config, "config", "", "path to a YAML tool-defaults file")
	fs.IntVar(&f.extra, "extra", 0, "oversample factor: 1, 2 or 4 (0 = config default)")
	fs.Float64Var(&f.gamma, "gamma", 0, "lightmap gamma curve (0 = config default)")
	fs.Float64Var(&f.rangeScale, "range", 0, "pre-clamp brightness multiplier (0 = config default)")
	fs.BoolVar(&f.addMin, "addmin", false, "add the minlight floor instead of clamping to it")
	fs.BoolVar(&f.dirt, "dirt", false, "force dirtmapping on for every face")
	fs.BoolVar(&f.noDirt, "nodirt", false, "force dirtmapping off for every face")
	fs.Float64Var(&f.dirtDepth, "dirtdepth", 0, "dirtmapping occlusion ray depth (0 = config default)")
	fs.Float64Var(&f.dirtScale, "dirtscale", 0, "dirtmapping scale (0 = config default)")
	fs.Float64Var(&f.dirtGain, "dirtgain", 0, "dirtmapping gain (0 = config default)")
	fs.Float64Var(&f.dirtAngle, "dirtangle", 0, "dirtmapping cone half-angle in degrees (0 = config default)")
	fs.IntVar(&f.bounce, "bounce", 0, "number of indirect bounce passes")
	fs.BoolVar(&f.hdr, "hdr", false, "write 8-bit RGB lighting instead of paletted luminance (no shared-exponent HDR data is written)")
	fs.BoolVar(&f.lit, "lit", false, "also write a .lit RGB sidecar")
	fs.BoolVar(&f.lux, "lux", false, "also write a .lux per-luxel direction sidecar")
	fs.Float64Var(&f.worldUnits, "world_units_per_luxel", 0, "luxel scale (0 = config default)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: light [flags] level.bsp")
		return 1
	}
	bspPath := fs.Arg(0)

	logPath := strings.TrimSuffix(bspPath, filepath.Ext(bspPath)) + ".log"
	logFile, err := os.Create(logPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, logFile), nil))

	cfg := toolconfig.Default()
	if f.config != "" {
		data, err := os.ReadFile(f.config)
		if err != nil {
			logger.Error("reading config", "err", err)
			return 2
		}
		cfg, err = toolconfig.Load(data)
		if err != nil {
			logger.Error("parsing config", "err", err)
			return 2
		}
	}
	applyOverrides(&cfg, f)

	def, ok := gamedef.ByName(cfg.Dialect)
	if !ok {
		def = gamedef.Quake
	}

	in, err := os.Open(bspPath)
	if err != nil {
		logger.Error("opening bsp", "err", err)
		return 2
	}
	stat, err := in.Stat()
	if err != nil {
		in.Close()
		logger.Error("stat bsp", "err", err)
		return 2
	}
	bsp, err := bspfile.Read(in, stat.Size())
	in.Close()
	if err != nil {
		logger.Error("reading bsp", "err", err)
		return 2
	}

	m, err := mapfile.Parse(strings.NewReader(bsp.Entities))
	if err != nil {
		logger.Error("parsing entity lump", "err", err)
		return 2
	}

	worldEpairs := source.NewEpairs(map[string]string{})
	if len(m.Entities) > 0 {
		worldEpairs = source.NewEpairs(m.Entities[0].Pairs)
	}
	minlight := worldEpairs.MinLight(0)
	mapDirt := worldEpairs.Dirt(cfg.Dirt) || f.dirt
	if f.noDirt {
		mapDirt = false
	}

	lights, suns := collectLights(m, mapDirt)
	logger.Info("loaded lights", "points", len(lights), "suns", len(suns))

	scene := buildScene(bsp)
	worldExtent := sceneExtent(bsp)

	extra := sample.Oversample(cfg.Extra)
	if f.extra != 0 {
		extra = sample.Oversample(f.extra)
	}

	opts := bake.DefaultOptions
	opts.MinLight = minlight
	opts.AddMinlight = cfg.AddMin
	opts.RangeScale = cfg.RangeScale
	opts.Gamma = cfg.Gamma
	opts.Dirt = bake.DirtOptions{
		Enabled:    mapDirt,
		Angles:     bake.DefaultDirt.Angles,
		Elevations: bake.DefaultDirt.Elevations,
		AngleDeg:   cfg.DirtAngle,
		Depth:      cfg.DirtDepth,
		Gain:       cfg.DirtGain,
		Scale:      cfg.DirtScale,
	}

	type lmFace struct {
		bspIndex int
		bf       *brush.Face
	}
	var lmFaces []lmFace
	for i := range bsp.Faces {
		face := &bsp.Faces[i]
		ti := bsp.TexInfo[face.TexInfo]
		if !def.SurfIsLightmapped(uint32(ti.Flags)) {
			continue
		}
		bf, ok := reconstructFace(bsp, face)
		if !ok {
			continue
		}
		lmFaces = append(lmFaces, lmFace{bspIndex: i, bf: bf})
	}

	phongOn := worldEpairs.Phong()
	var phongNormals map[int]map[facepp.VertexKey]geom.Vec3
	if phongOn {
		ppFaces := make([]facepp.Face, len(lmFaces))
		for i, lf := range lmFaces {
			ppFaces[i] = facepp.Face{Face: *lf.bf}
		}
		phongNormals = facepp.PhongNormals(ppFaces, worldEpairs.PhongAngle())
	}

	type bakedFace struct {
		index int
		grid  *sample.Grid
		table *bake.StyleTable
	}
	var baked []bakedFace
	var bounceSources []source.Bounce

	for lfi, lf := range lmFaces {
		i, bf := lf.bspIndex, lf.bf
		g := sample.BuildOversampled(bf, cfg.WorldUnitsPerLuxel, extra)
		sample.MarkDegenerate(g)
		if phongOn {
			sample.ApplyPhongNormals(g, bf, phongNormals[lfi])
		}
		ff := bake.NewFace(g)

		for _, pl := range lights {
			for _, jittered := range source.Jitter(*pl.light, pl.deviance, pl.samples, i) {
				bake.IntegrateLight(ff, &jittered, scene, opts)
			}
		}
		for _, sun := range suns {
			bake.IntegrateSun(ff, sun, scene, opts, worldExtent)
		}
		if opts.Dirt.Enabled {
			factors := bake.DirtGrid(g, scene, opts.Dirt)
			bake.ApplyDirt(ff, factors)
		}
		bake.ApplyMinlight(ff, minlight, cfg.AddMin)

		baked = append(baked, bakedFace{index: i, grid: g, table: ff.Styles})

		avgColor, avgLit, area := averageFaceLight(ff)
		bounceSources = append(bounceSources, source.Bounce{
			Pos: bf.Winding.Centroid(), Normal: bf.Plane.Normal,
			Color: avgColor, Radiosity: avgLit, Area: area,
		})
	}

	for pass := 0; pass < cfg.Bounce; pass++ {
		for _, b := range baked {
			ff := &bake.Face{Grid: b.grid, Styles: b.table}
			bake.BouncePass(ff, bounceSources, opts)
		}
	}

	var litRGB []byte
	var luxDirs []byte
	for _, b := range baked {
		face := &bsp.Faces[b.index]
		dropped := b.table.EvictOverflow()
		for _, s := range dropped {
			logger.Warn("style overflow, dropping dimmest style", "face", b.index, "style", s)
		}
		styles := b.table.Styles()
		for s := range styles {
			face.Styles[s] = uint8(styleByte(styles[s]))
		}

		n := len(b.grid.Luxels)
		colors := make([]geom.Vec3, n)
		for i := 0; i < n; i++ {
			colors[i] = bake.PostProcess(b.table.Color(0, i), opts.RangeScale, opts.Gamma)
		}

		face.LightOfs = int32(len(bsp.Lighting))
		if def.Name == "halflife" || cfg.HDR {
			bsp.Lighting = append(bsp.Lighting, bake.PackRGB(colors)...)
		} else {
			bsp.Lighting = append(bsp.Lighting, bake.PackLuminance(colors)...)
		}
		if f.lit {
			litRGB = append(litRGB, bake.PackRGB(colors)...)
		}
		if f.lux {
			dirs := make([]geom.Vec3, n)
			for i := range dirs {
				dirs[i] = b.grid.Luxels[i].Normal
			}
			luxDirs = append(luxDirs, bake.PackDirection(dirs)...)
		}
	}

	if f.lit {
		litPath := strings.TrimSuffix(bspPath, filepath.Ext(bspPath)) + ".lit"
		if err := os.WriteFile(litPath, buildLitFile(litRGB), 0644); err != nil {
			logger.Error("writing .lit", "err", err)
		}
	}
	if f.lux {
		luxPath := strings.TrimSuffix(bspPath, filepath.Ext(bspPath)) + ".lux"
		if err := os.WriteFile(luxPath, luxDirs, 0644); err != nil {
			logger.Error("writing .lux", "err", err)
		}
	}

	out, err := os.Create(bspPath)
	if err != nil {
		logger.Error("reopening bsp for write", "err", err)
		return 2
	}
	defer out.Close()
	if err := bspfile.Write(out, bsp); err != nil {
		logger.Error("writing bsp", "err", err)
		return 2
	}

	logger.Info("done", "faces_lit", len(baked))
	return 0
}

func applyOverrides(cfg *toolconfig.Config, f flags) {
	if f.extra != 0 {
		cfg.Extra = f.extra
	}
	if f.gamma != 0 {
		cfg.Gamma = f.gamma
	}
	if f.rangeScale != 0 {
		cfg.RangeScale = f.rangeScale
	}
	if f.addMin {
		cfg.AddMin = true
	}
	if f.dirt {
		cfg.Dirt = true
	}
	if f.dirtDepth != 0 {
		cfg.DirtDepth = f.dirtDepth
	}
	if f.dirtScale != 0 {
		cfg.DirtScale = f.dirtScale
	}
	if f.dirtGain != 0 {
		cfg.DirtGain = f.dirtGain
	}
	if f.dirtAngle != 0 {
		cfg.DirtAngle = f.dirtAngle
	}
	if f.bounce != 0 {
		cfg.Bounce = f.bounce
	}
	if f.hdr {
		cfg.HDR = true
	}
	if f.worldUnits != 0 {
		cfg.WorldUnitsPerLuxel = f.worldUnits
	}
}

func styleByte(s int8) uint8 {
	if s < 0 {
		return 255
	}
	return uint8(s)
}

// pointLight bundles a resolved light with the per-entity jitter
// parameters Jitter needs.
type pointLight struct {
	light    *source.Light
	deviance float64
	samples  int
}

// collectLights turns every "light"/"light_environment" entity into a
// resolved source.Light or source.Sun via source.Epairs decoding.
func collectLights(m *mapfile.Map, mapDirt bool) ([]pointLight, []*source.Sun) {
	var lights []pointLight
	var suns []*source.Sun
	for _, e := range m.Entities {
		ep := source.NewEpairs(e.Pairs)
		switch e.Classname() {
		case "light", "light_fluoro", "light_fluorospark", "light_torch_small_walltorch":
			formula, _ := ep.Formula()
			style, _ := strconv.Atoi(e.Pairs["style"])
			lights = append(lights, pointLight{
				light: &source.Light{
					Pos:        ep.Origin(),
					Color:      ep.Color(),
					Intensity:  ep.Intensity(),
					Formula:    formula,
					ScaleDist:  1,
					Atten:      1,
					AngleScale: ep.AngleScale(),
					Style:      style,
					Dirt:       ep.Dirt(mapDirt),
				},
				deviance: ep.Deviance(),
				samples:  ep.Samples(),
			})
		case "light_environment":
			style, _ := strconv.Atoi(e.Pairs["style"])
			suns = append(suns, &source.Sun{
				Dir:        ep.Direction(),
				Intensity:  ep.Intensity(),
				Color:      ep.Color(),
				AngleScale: ep.AngleScale(),
				Dirt:       ep.Dirt(mapDirt),
				Style:      style,
			})
		}
	}
	return lights, suns
}

func reconstructFace(f *bspfile.File, face *bspfile.Face) (*brush.Face, bool) {
	if int(face.PlaneNum) >= len(f.Planes) || int(face.TexInfo) >= len(f.TexInfo) {
		return nil, false
	}
	p := f.Planes[face.PlaneNum]
	plane := geom.Plane{Normal: geom.Vec3{X: float64(p.Normal[0]), Y: float64(p.Normal[1]), Z: float64(p.Normal[2])}, Dist: float64(p.Dist)}
	if face.Side != 0 {
		plane.Normal.Neg(&plane.Normal)
		plane.Dist = -plane.Dist
	}

	var w geom.Winding
	for i := int32(0); i < face.NumEdges; i++ {
		se := f.SurfEdges[face.FirstEdge+i]
		var vi uint32
		if se >= 0 {
			vi = f.Edges[se].V[0]
		} else {
			vi = f.Edges[-se].V[1]
		}
		if int(vi) >= len(f.Vertexes) {
			return nil, false
		}
		v := f.Vertexes[vi].Point
		w = append(w, geom.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
	}
	if w.Degenerate() {
		return nil, false
	}

	ti := f.TexInfo[face.TexInfo]
	name := ""
	if int(ti.MipTex) < len(f.Textures) {
		name = f.Textures[ti.MipTex].Name
	}
	info := mapfile.TexInfo{
		S:           geom.Vec4{X: float64(ti.S[0]), Y: float64(ti.S[1]), Z: float64(ti.S[2]), W: float64(ti.S[3])},
		T:           geom.Vec4{X: float64(ti.T[0]), Y: float64(ti.T[1]), Z: float64(ti.T[2]), W: float64(ti.T[3])},
		NativeFlags: uint32(ti.Flags),
		TextureName: name,
	}
	return &brush.Face{Plane: plane, Info: info, Winding: w}, true
}

// buildScene collects every face's winding into an opaque shadow-casting
// triangle set; translucent/liquid tinting per texture is not yet applied,
// so every surface casts a full-strength shadow regardless of content.
func buildScene(f *bspfile.File) *rayservice.BVH {
	var tris []rayservice.Triangle
	for i := range f.Faces {
		face := &f.Faces[i]
		bf, ok := reconstructFace(f, face)
		if !ok {
			continue
		}
		tris = append(tris, rayservice.TrianglesFromWinding(bf.Winding, 0xffffffff, [3]float32{1, 1, 1}, true)...)
	}
	return rayservice.BuildBVH(tris)
}

func sceneExtent(f *bspfile.File) float64 {
	bounds := geom.EmptyAABB()
	for _, v := range f.Vertexes {
		p := geom.Vec3{X: float64(v.Point[0]), Y: float64(v.Point[1]), Z: float64(v.Point[2])}
		bounds.Extend(&p)
	}
	size := bounds.Size()
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	return longest*2 + 1024
}

// averageFaceLight summarizes one face's baked style-0 color for the next
// bounce pass's source list.
func averageFaceLight(ff *bake.Face) (color geom.Vec3, lit float64, area float64) {
	n := len(ff.Grid.Luxels)
	if n == 0 {
		return geom.Vec3{}, 0, 0
	}
	sum := geom.Vec3{}
	for i := 0; i < n; i++ {
		c := ff.Styles.Color(0, i)
		sum.Add(&sum, &c)
	}
	sum.Scale(&sum, 1/float64(n))
	lum := 0.299*sum.X + 0.587*sum.Y + 0.114*sum.Z
	area = float64(n) * ff.Grid.ScaleS * ff.Grid.ScaleT
	return sum, lum, area
}

// buildLitFile wraps raw RGB lighting samples in the classic ".lit" v1
// container: a 4-byte "QLIT" magic, a version number, then the RGB bytes.
func buildLitFile(rgb []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("QLIT")
	buf.Write([]byte{1, 0, 0, 0})
	buf.Write(rgb)
	return buf.Bytes()
}
