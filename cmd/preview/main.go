// Command preview meshes the configured world without a window and writes a top-down
// WebP map of it.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/leterax/blockmodels/pkg/config"
	"github.com/leterax/blockmodels/pkg/game"
	"github.com/leterax/blockmodels/pkg/preview"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	out := flag.String("out", "map.webp", "output WebP file")
	scale := flag.Int("scale", 8, "pixels per block")
	smooth := flag.Bool("smooth", false, "upscale with Catmull-Rom filtering")
	flag.Parse()

	cfg, err := config.FromFlags(flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := game.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}
	if err := app.GenerateWorld(); err != nil {
		log.Fatalf("Failed to generate world: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.MeshWorld(ctx); err != nil {
		log.Fatalf("Failed to mesh world: %v", err)
	}

	opts := preview.Options{Scale: *scale, Smooth: *smooth}
	if err := preview.WriteFile(*out, app.World.Columns(), app.Textures, opts); err != nil {
		log.Fatalf("Failed to write preview: %v", err)
	}
	log.Printf("Wrote %s", *out)
}
