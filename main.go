package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/prefabs"
	"go.uber.org/zap"
)

func main() {
	config := flag.String("config", "game.yaml", "game spec in prefabs/")
	levelName := flag.String("level", "", "level in levels/, overrides the game spec")
	debug := flag.Bool("debug", false, "draw the debug overlay")
	flag.Parse()

	spec, err := prefabs.LoadGameSpec(*config)
	if err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		spec.Level = *levelName
	}
	spec.Debug = spec.Debug || *debug

	logger, err := common.NewLogger(spec.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := NewGame(ctx, spec, logger)
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(spec.Width, spec.Height)
	ebiten.SetWindowTitle(spec.Title)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}
