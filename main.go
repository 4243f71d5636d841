package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilewalk/logger"
	"github.com/milk9111/tilewalk/prefabs"
)

func main() {
	sceneName := flag.String("scene", "", "scene name in prefabs/scenes (defaults to the scene in game.yaml)")
	debug := flag.Bool("debug", false, "draw collision boxes and controller state")
	watch := flag.Bool("watch", false, "reload scenes and scripts under prefabs/ when they change")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "", "log format: text or json")
	flag.Parse()

	logger.Init(*logLevel, *logFormat)
	log := logger.For("main")

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.WithError(err).Fatal("load game spec")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	game, err := NewGame(ctx, spec, *sceneName, *debug, *watch)
	if err != nil {
		log.WithError(err).Fatal("start game")
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(spec.Viewport.Width*2, spec.Viewport.Height*2)
	ebiten.SetWindowTitle(spec.Title)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("game exited")
	}
}
