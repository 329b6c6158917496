package main

import (
	"flag"
	"fmt"
	"os"

	"physics-engine/internal/debug"
	"physics-engine/internal/engineconfig"
	"physics-engine/internal/env"
	"physics-engine/internal/graphics"
	"physics-engine/internal/logger"
	"physics-engine/internal/physics"
	"physics-engine/internal/render"
	"physics-engine/internal/scene"
)

func main() {
	configPath := flag.String("config", engineconfig.EngineConfigPath, "engine config file")
	sceneName := flag.String("scene", "", "preset name or preset .yaml file (overrides the config)")
	fullscreen := flag.Bool("fullscreen", false, "open a fullscreen window")
	flag.Parse()

	if err := run(*configPath, *sceneName, *fullscreen); err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(1)
	}
}

func run(configPath, sceneName string, fullscreen bool) error {
	log := logger.New("")
	if loaded, err := env.Load(".env"); err != nil {
		return err
	} else if len(loaded) > 0 {
		log.Logf("sandbox: loaded %v", loaded)
	}
	prefs, err := engineconfig.Load(configPath)
	if err != nil {
		return err
	}
	if err := engineconfig.ApplyEnv(&prefs); err != nil {
		return err
	}
	if sceneName != "" {
		prefs.Scene = sceneName
	}

	world, err := physics.NewWorld(prefs.Physics, physics.WithLogger(log))
	if err != nil {
		return err
	}
	preset, err := scene.Lookup(prefs.Scene)
	if err != nil {
		return err
	}
	scn, err := scene.New(world, preset, log)
	if err != nil {
		return err
	}
	scn.ShowBVH = prefs.ShowBVH
	scn.ShowContacts = prefs.ShowContacts

	dbg := debug.New()
	dbg.ShowFPS = prefs.ShowFPS
	dbg.ShowStats = prefs.ShowStats
	dbg.ShowHelp = true

	queue := render.NewQueue(2*prefs.Physics.MaxEntities + 256)
	update := func() {
		scn.Update(graphics.ReadInput())
		scn.Build(queue)
	}
	draw := func() {
		graphics.Draw(scn.Camera, queue)
		s := world.Settings()
		dbg.Draw(debug.Status{
			Scene:      preset.Name,
			Iterations: s.Iterations,
			Broadphase: s.Broadphase,
			Paused:     scn.Paused,
			Stats:      world.Stats(),
		})
	}
	graphics.Run(graphics.WindowConfig{Title: "physics sandbox", Width: 1280, Height: 800, Fullscreen: fullscreen}, update, draw)
	return nil
}
