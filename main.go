package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amberhive/beeant-tracer/pkg/core"
	"github.com/amberhive/beeant-tracer/pkg/geometry"
	"github.com/amberhive/beeant-tracer/pkg/integrator"
	"github.com/amberhive/beeant-tracer/pkg/material"
	"github.com/amberhive/beeant-tracer/pkg/meshio"
	"github.com/amberhive/beeant-tracer/pkg/renderer"
	"github.com/amberhive/beeant-tracer/pkg/scene"
	"github.com/amberhive/beeant-tracer/pkg/store"
)

// Config holds the render parameters the CLI supplies; the kernel and
// pipeline themselves take no flags.
type Config struct {
	Scene      string // "cornell" or a path to a PLY mesh file
	Width      int
	Height     int
	SPP        int
	Workers    int
	OutputPPM  string
	OutputPNG  string
	OutputDB   string
	Verbose    bool
}

func main() {
	cfg := parseFlags()
	setupLogging(cfg.Verbose)

	start := time.Now()

	sceneObj, err := buildScene(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build scene")
	}

	fb := renderer.NewFramebuffer(cfg.Width, cfg.Height)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.OutputDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	kernel := integrator.NewKernel(sceneObj, integrator.DefaultConfig())
	pipelineCfg := renderer.DefaultConfig(cfg.Workers)
	pipelineCfg.SPP = cfg.SPP

	pipeline := renderer.NewPipeline(sceneObj, kernel, fb, st, pipelineCfg)

	log.Info().
		Int("width", cfg.Width).Int("height", cfg.Height).
		Int("spp", cfg.SPP).Int("workers", pipelineCfg.NumWorkers).
		Msg("starting render")

	if err := pipeline.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("render pipeline failed")
	}

	if err := writeImages(fb, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to write output image")
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("render finished")
}

func parseFlags() Config {
	cfg := Config{}
	flag.StringVar(&cfg.Scene, "scene", "cornell", "scene to render: 'cornell' or a path to a .ply mesh")
	flag.IntVar(&cfg.Width, "width", 400, "image width in pixels")
	flag.IntVar(&cfg.Height, "height", 400, "image height in pixels")
	flag.IntVar(&cfg.SPP, "spp", 16, "samples per pixel")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "number of bee goroutines")
	flag.StringVar(&cfg.OutputPPM, "ppm", "render.ppm", "PPM output path")
	flag.StringVar(&cfg.OutputPNG, "png", "render.png", "PNG output path (empty to skip)")
	flag.StringVar(&cfg.OutputDB, "db", "paths.sqlite", "SQLite path-record database path")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	flag.Parse()
	return cfg
}

func setupLogging(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

// buildScene constructs either the built-in Cornell box or a single PLY
// mesh lit by a synthetic overhead panel light, per the scene-type flag.
func buildScene(cfg Config) (*scene.Scene, error) {
	if cfg.Scene == "cornell" {
		return scene.NewCornellBoxScene(cfg.Width, cfg.Height), nil
	}

	if filepath.Ext(cfg.Scene) != ".ply" {
		return nil, fmt.Errorf("unrecognized scene %q: expected \"cornell\" or a .ply path", cfg.Scene)
	}

	var importer meshio.Importer = meshio.PLYImporter{}
	raw, err := importer.Import(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}

	diffuse := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
	mesh := geometry.NewMesh(raw.Vertices, raw.Faces, diffuse)

	bounds := mesh.AABB()
	center := bounds.Centroid()
	extent := bounds.Diagonal().Length()

	camera := scene.NewCamera(
		center.Add(core.NewVec3(0, 0, -extent)),
		core.NewVec3(0, 0, 1),
		40,
		cfg.Width, cfg.Height,
	)

	s := scene.NewScene(camera)
	s.AddObject(mesh, diffuse)

	// A synthetic panel light above the mesh, sized to its bounding box,
	// since imported PLY meshes carry no emissive surfaces of their own.
	emissive := material.NewEmissive(core.NewVec3(8, 8, 8))
	panelHalf := extent / 4
	panelY := bounds.Max.Y + extent/10
	panel := geometry.NewMesh([]core.Vec3{
		center.Add(core.NewVec3(-panelHalf, panelY-center.Y, -panelHalf)),
		center.Add(core.NewVec3(panelHalf, panelY-center.Y, -panelHalf)),
		center.Add(core.NewVec3(panelHalf, panelY-center.Y, panelHalf)),
		center.Add(core.NewVec3(-panelHalf, panelY-center.Y, panelHalf)),
	}, []int{0, 1, 2, 0, 2, 3}, emissive)
	s.AddObject(panel, emissive)

	s.Build()
	return s, nil
}

func writeImages(fb *renderer.Framebuffer, cfg Config) error {
	sinks := []struct {
		path string
		sink renderer.ImageSink
	}{
		{cfg.OutputPPM, renderer.PPMSink{}},
		{cfg.OutputPNG, renderer.PNGSink{}},
	}

	for _, s := range sinks {
		if s.path == "" {
			continue
		}
		f, err := os.Create(s.path)
		if err != nil {
			return err
		}
		err = s.sink.Write(fb, f)
		closeErr := f.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}

	return nil
}
