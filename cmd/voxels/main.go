package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/leterax/blockmodels/pkg/config"
	"github.com/leterax/blockmodels/pkg/game"
	"github.com/leterax/blockmodels/pkg/render"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
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

	renderer, err := render.NewRenderer(app)
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}
	renderer.Run()
}
