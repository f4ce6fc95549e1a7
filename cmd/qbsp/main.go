// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command qbsp compiles a .map source file into a .bsp geometry file plus a
// .prt portal file for an external visibility solver. It never
// fails outright on recoverable map problems: warnings are logged and
// compilation continues "the tool does not fail".
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qbsptools/bsptools/bspfile"
	"github.com/qbsptools/bsptools/bsptree"
	"github.com/qbsptools/bsptools/brush"
	"github.com/qbsptools/bsptools/geom"
	"github.com/qbsptools/bsptools/internal/assemble"
	"github.com/qbsptools/bsptools/internal/gamedef"
	"github.com/qbsptools/bsptools/internal/toolconfig"
	"github.com/qbsptools/bsptools/mapfile"
	"github.com/qbsptools/bsptools/portal"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type flags struct {
	subdivide   float64
	leakDist    float64
	leakTest    bool
	forcePRT1   bool
	config      string
	dialect     string
	bsp2        bool
	bsp2rmq     bool
	hlbsp       bool
	q2bsp       bool
	noFill      bool
}

// run implements the full entry point and returns a process exit code:
// 0 success, 1 usage error, 2 unrecoverable map error, 3 leak detected
// with -leaktest.
func run(args []string) int {
	fs := flag.NewFlagSet("qbsp", flag.ContinueOnError)
	f := flags{}
	fs.Float64Var(&f.subdivide, "subdivide", 0, "set the config's face subdivision size (0 = config default); assembly subdivides at 240 regardless")
	fs.Float64Var(&f.leakDist, "leakdist", 0, "set the config's leak-point sampling distance (0 = config default); the leak trace does not read it")
	fs.BoolVar(&f.leakTest, "leaktest", false, "exit with status 3 instead of writing a .pts file on a leak")
	fs.BoolVar(&f.forcePRT1, "forceprt1", false, "emit a legacy PRT1-style portal file even for games that support clusters")
	fs.StringVar(&f.config, "config", "", "path to a YAML tool-defaults file")
	fs.StringVar(&f.dialect, "convert", "", "target game: quake, quake2, halflife, hexen2")
	fs.BoolVar(&f.bsp2, "bsp2", false, "write the BSP2 dialect instead of the game default")
	fs.BoolVar(&f.bsp2rmq, "2psb", false, "write the BSP2rmq dialect instead of the game default")
	fs.BoolVar(&f.hlbsp, "hlbsp", false, "write the Half-Life dialect instead of the game default")
	fs.BoolVar(&f.q2bsp, "q2bsp", false, "write the Quake II dialect instead of the game default")
	fs.BoolVar(&f.noFill, "nofill", false, "skip the leak-sealing fill pass")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: qbsp [flags] source.map [dest.bsp]")
		return 1
	}

	mapPath := fs.Arg(0)
	bspPath := strings.TrimSuffix(mapPath, filepath.Ext(mapPath)) + ".bsp"
	if fs.NArg() >= 2 {
		bspPath = fs.Arg(1)
	}

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
			logger.Error("reading config", "path", f.config, "err", err)
			return 2
		}
		cfg, err = toolconfig.Load(data)
		if err != nil {
			logger.Error("parsing config", "path", f.config, "err", err)
			return 2
		}
	}
	if f.subdivide > 0 {
		cfg.Subdivide = f.subdivide
	}
	if f.leakDist > 0 {
		cfg.LeakDist = f.leakDist
	}
	if f.forcePRT1 {
		cfg.ForcePRT1 = true
	}
	if f.dialect != "" {
		cfg.Dialect = f.dialect
	}

	def, ok := gamedef.ByName(cfg.Dialect)
	if !ok {
		logger.Error("unknown game", "dialect", cfg.Dialect)
		return 1
	}
	dialect := def.DefaultDialect
	switch {
	case f.bsp2:
		dialect = gamedef.DialectBSP2
	case f.bsp2rmq:
		dialect = gamedef.DialectBSP2rmq
	case f.hlbsp:
		dialect = gamedef.DialectHalfLife
	case f.q2bsp:
		dialect = gamedef.DialectQuake2
	}

	start := time.Now()
	logger.Info("compiling", "map", mapPath, "game", def.Name, "dialect", dialect)

	mf, err := os.Open(mapPath)
	if err != nil {
		logger.Error("opening map", "err", err)
		return 2
	}
	defer mf.Close()

	m, err := mapfile.Parse(mf)
	if err != nil {
		logger.Error("parsing map", "err", err)
		return 2
	}

	mapDir := filepath.Dir(mapPath)
	loadExternal := func(name string) (io.ReadCloser, error) {
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(mapDir, name)
		}
		if filepath.Ext(p) == "" {
			p += ".map"
		}
		return os.Open(p)
	}
	if err := mapfile.ResolveExternalMaps(m, loadExternal, 0); err != nil {
		logger.Error("resolving misc_external_map", "err", err)
		return 2
	}

	for _, w := range m.Decode() {
		logger.Warn(w)
	}

	if len(m.Entities) == 0 {
		logger.Error("map has no entities")
		return 2
	}

	// worldBrushes holds worldspawn's own brushes plus every func_group
	// (a resolved external map graft) and func_detail entity's brushes:
	// all three compile directly into the world's single BSP tree, portal
	// graph and clip hulls. Every other func_* brush entity (func_door,
	// func_rotate, ...) becomes its own small brush model, numbered
	// "*1", "*2", ... and patched back into that entity's "model" epair.
	var worldBrushes []*brush.Brush
	type bmodelSource struct {
		entIndex int
		brushes  []*brush.Brush
	}
	var bmodelSources []bmodelSource

	for ei := range m.Entities {
		ent := &m.Entities[ei]
		if len(ent.Brush) == 0 {
			continue
		}
		classname := ent.Classname()
		isDetail := strings.HasPrefix(classname, "func_detail")
		var built []*brush.Brush
		for bi, mb := range ent.Brush {
			contents := brushContents(mb, def)
			if isDetail {
				contents |= gamedef.ContentsDetail
			}
			b, warnings, ok := brush.Build(mb, contents, ei)
			for _, w := range warnings {
				logger.Warn(w, "entity", ei, "brush", bi)
			}
			if !ok {
				continue
			}
			built = append(built, b)
		}
		switch {
		case ei == 0, classname == "func_group", isDetail:
			worldBrushes = append(worldBrushes, built...)
		case strings.HasPrefix(classname, "func_"):
			bmodelSources = append(bmodelSources, bmodelSource{entIndex: ei, brushes: built})
		default:
			logger.Warn("brush entity has no compiled representation", "entity", ei, "classname", classname)
		}
	}

	worldBounds := geom.EmptyAABB()
	for _, b := range worldBrushes {
		worldBounds = geom.Union(worldBounds, b.Bounds)
	}
	worldBounds = worldBounds.Expand(256)

	outputFaces := brush.CSG(worldBrushes)
	faces := make([]*brush.OutputFace, len(outputFaces))
	for i := range outputFaces {
		faces[i] = &outputFaces[i]
	}

	root := bsptree.Build(faces, worldBrushes, worldBounds)

	if !f.noFill {
		if leaks := bsptree.Seal(root, worldBounds); len(leaks) > 0 {
			logger.Warn("leak detected", "points", len(leaks))
			if f.leakTest {
				return 3
			}
			ptsPath := strings.TrimSuffix(bspPath, filepath.Ext(bspPath)) + ".pts"
			if err := os.WriteFile(ptsPath, []byte(bsptree.WritePTS(leaks)), 0644); err != nil {
				logger.Error("writing .pts", "err", err)
			}
		}
	}

	graph := portal.Build(root, worldBounds, def)
	prtPath := strings.TrimSuffix(bspPath, filepath.Ext(bspPath)) + ".prt"
	prtFile, err := os.Create(prtPath)
	if err != nil {
		logger.Error("creating .prt", "err", err)
		return 2
	}
	prtVersion := "PRT1"
	if def.ClusterPerArea && !cfg.ForcePRT1 {
		prtVersion = "PRT2"
	}
	if err := portal.WritePRT(prtFile, graph, prtVersion); err != nil {
		prtFile.Close()
		logger.Error("writing .prt", "err", err)
		return 2
	}
	prtFile.Close()

	hulls := bsptree.BuildHulls(worldBrushes, def, worldBounds)
	models := []assemble.ModelInput{{Root: root, Hulls: hulls}}

	for _, bm := range bmodelSources {
		origin, rest := brush.ExtractOrigin(bm.brushes)
		var originPoint geom.Vec3
		if origin != nil {
			originPoint = origin.Centroid()
			neg := geom.Vec3{}
			neg.Scale(&originPoint, -1)
			for i, b := range rest {
				rest[i] = brush.Translate(b, neg)
			}
		}
		if len(rest) == 0 {
			logger.Warn("brush entity has no solid geometry", "entity", bm.entIndex)
			continue
		}
		bmBounds := geom.EmptyAABB()
		for _, b := range rest {
			bmBounds = geom.Union(bmBounds, b.Bounds)
		}
		bmBounds = bmBounds.Expand(1)

		bmOutputFaces := brush.CSG(rest)
		bmFaces := make([]*brush.OutputFace, len(bmOutputFaces))
		for i := range bmOutputFaces {
			bmFaces[i] = &bmOutputFaces[i]
		}
		bmRoot := bsptree.Build(bmFaces, rest, bmBounds)

		modelIndex := len(models)
		models = append(models, assemble.ModelInput{Root: bmRoot, Origin: originPoint})
		m.Entities[bm.entIndex].Pairs["model"] = fmt.Sprintf("*%d", modelIndex)
	}

	bspData := assemble.Assemble(models, def, m.EntityText())

	if !bspfile.Fits(bspData, dialect) {
		logger.Warn("native dialect cannot represent this map, widening", "dialect", dialect)
		dialect = gamedef.DialectBSP2
	}
	out := bspfile.Convert(bspData, dialect)

	bf, err := os.Create(bspPath)
	if err != nil {
		logger.Error("creating .bsp", "err", err)
		return 2
	}
	defer bf.Close()
	if err := bspfile.Write(bf, out); err != nil {
		logger.Error("writing .bsp", "err", err)
		return 2
	}

	logger.Info("done", "faces", len(out.Faces), "leafs", len(out.Leafs), "elapsed", time.Since(start))
	return 0
}

// brushContents classifies a brush by inspecting its face texture names:
// a special texture name on any face of the brush overrides the default
// solid content type.
func brushContents(mb mapfile.Brush, def gamedef.GameDef) gamedef.Contents {
	for _, face := range mb.Faces {
		name := strings.ToLower(face.Tex.Name)
		switch {
		case strings.HasPrefix(name, "*lava"):
			return gamedef.ContentsLava
		case strings.HasPrefix(name, "*slime"):
			return gamedef.ContentsSlime
		case strings.HasPrefix(name, "*"):
			return gamedef.ContentsWater
		case name == "sky":
			return gamedef.ContentsSky
		}
		if c, ok := def.ContentsFromString(name); ok {
			return c
		}
	}
	return gamedef.ContentsSolid
}
