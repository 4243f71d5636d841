package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/tilewalk/asset"
	"github.com/milk9111/tilewalk/assets"
	"github.com/milk9111/tilewalk/logger"
	"github.com/milk9111/tilewalk/prefabs"
)

func main() {
	only := flag.String("scene", "", "check a single scene instead of all of them")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.Init(*logLevel, "")
	log := logger.For("scenecheck")

	names := []string{*only}
	if *only == "" {
		var err error
		if names, err = prefabs.SceneNames(); err != nil {
			log.WithError(err).Fatal("list scenes")
		}
	}

	// Decoded images stay in memory; nothing is uploaded to the GPU.
	textures := assets.NewCache(asset.WrapImage)
	ctx := context.Background()

	failed := 0
	for _, name := range names {
		r, err := check(ctx, name, textures)
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", name, err)
			continue
		}
		status := "ok  "
		if !r.OK() {
			failed++
			status = "FAIL"
		}
		fmt.Printf("%s %s: %dx%d tiles, %d objects, %d blocking\n", status, r.Name, r.Cols, r.Rows, r.Objects, r.Blocking)
		for _, pair := range r.Overlaps {
			fmt.Printf("     overlap: %s / %s\n", pair[0], pair[1])
		}
		if len(r.Unmoored) > 0 {
			fmt.Printf("     outside the map: %s\n", strings.Join(r.Unmoored, ", "))
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
