package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"physics-engine/internal/commands"
	"physics-engine/internal/engineconfig"
	"physics-engine/internal/env"
	"physics-engine/internal/logger"
	"physics-engine/internal/metrics"
	"physics-engine/internal/physics"
	"physics-engine/internal/scene"
	"physics-engine/internal/server"
)

// common are the flags every subcommand takes.
type common struct {
	config  string
	scene   string
	logPath string
	verbose bool
}

func (c *common) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", engineconfig.EngineConfigPath, "engine config file")
	fs.StringVar(&c.scene, "scene", "", "preset name or preset .yaml file (overrides the config)")
	fs.StringVar(&c.logPath, "log", logger.LogFilePath, "log file")
	fs.BoolVar(&c.verbose, "v", false, "echo log lines to stderr")
}

// setup loads .env and the config and builds a scene on a fresh world.
func (c *common) setup(mutate func(*physics.Settings)) (*scene.Scene, engineconfig.EnginePrefs, *logger.Logger, error) {
	log := logger.New(c.logPath)
	if c.verbose {
		log.SetEcho(os.Stderr)
	}
	if _, err := env.Load(".env"); err != nil {
		return nil, engineconfig.EnginePrefs{}, nil, err
	}
	prefs, err := engineconfig.Load(c.config)
	if err != nil {
		return nil, prefs, nil, err
	}
	if err := engineconfig.ApplyEnv(&prefs); err != nil {
		return nil, prefs, nil, err
	}
	if c.scene != "" {
		prefs.Scene = c.scene
	}
	if mutate != nil {
		mutate(&prefs.Physics)
	}
	preset, err := scene.Lookup(prefs.Scene)
	if err != nil {
		return nil, prefs, nil, err
	}
	world, err := physics.NewWorld(prefs.Physics, physics.WithLogger(log))
	if err != nil {
		return nil, prefs, nil, err
	}
	scn, err := scene.New(world, preset, log)
	if err != nil {
		return nil, prefs, nil, err
	}
	return scn, prefs, log, nil
}

func registerRun(reg *commands.Registry) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var c common
	c.bind(fs)
	ticks := fs.Int("ticks", 500, "ticks to simulate")
	every := fs.Int("every", 100, "log the counters every N ticks (0 disables)")
	bodies := fs.Bool("bodies", false, "print the final body states as JSON")

	reg.Register("run", "simulate a scene headless and print the final counters", fs, func() error {
		scn, _, log, err := c.setup(nil)
		if err != nil {
			return err
		}
		run := server.NewRunner(scn)
		dt := scn.World.Settings().TimeStep
		for i := 1; i <= *ticks; i++ {
			run.Step(dt)
			if *every > 0 && i%*every == 0 {
				st := scn.World.Stats()
				log.Logf("tick %d: %d pairs, %d SAT tests, %d collisions, %d reused, %d new",
					i, st.CandidatePairs, st.SATTests, st.Collisions, st.ReusedContacts, st.NewContacts)
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if *bodies {
			return enc.Encode(run.Bodies())
		}
		return enc.Encode(run.Snapshot())
	})
}

func registerBench(reg *commands.Registry) {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	var c common
	c.bind(fs)
	ticks := fs.Int("ticks", 1000, "ticks per broadphase")

	reg.Register("bench", "time both broadphases on the same scene", fs, func() error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "broadphase\tbodies\tus/tick\tpairs/tick\tSAT/tick\tcollisions/tick\t")
		for _, mode := range []physics.BroadphaseMode{physics.BroadphaseBVH, physics.BroadphaseBruteForce} {
			scn, _, _, err := c.setup(func(s *physics.Settings) { s.Broadphase = mode })
			if err != nil {
				return err
			}
			var pairs, sat, hits int
			dt := scn.World.Settings().TimeStep
			start := time.Now()
			for range *ticks {
				scn.World.Tick(dt)
				st := scn.World.Stats()
				pairs += st.CandidatePairs
				sat += st.SATTests
				hits += st.Collisions
			}
			elapsed := time.Since(start)
			n := float64(*ticks)
			fmt.Fprintf(tw, "%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t\n", mode, scn.World.Len(),
				float64(elapsed.Microseconds())/n, float64(pairs)/n, float64(sat)/n, float64(hits)/n)
		}
		return tw.Flush()
	})
}

func registerServe(reg *commands.Registry) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var c common
	c.bind(fs)
	addr := fs.String("addr", "", "listen address (defaults to metrics_addr from the config)")
	interval := fs.Duration("interval", 10*time.Millisecond, "wall time between simulation steps")

	reg.Register("serve", "run a scene in real time and serve /stats, /bodies and /metrics", fs, func() error {
		scn, prefs, log, err := c.setup(nil)
		if err != nil {
			return err
		}
		if *addr == "" {
			*addr = prefs.MetricsAddr
		}

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		scn.OnTick = metrics.New(promReg).Observe
		run := server.NewRunner(scn)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              *addr,
			Handler:           server.NewRouter(server.Config{Sim: run, Gatherer: promReg, DisableLogging: !c.verbose}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()
		log.Logf("physsim: serving %s on http://%s", scn.Preset().Name, *addr)

		simDone := make(chan error, 1)
		go func() { simDone <- run.Run(ctx, *interval) }()

		select {
		case err := <-errc:
			stop()
			<-simDone
			return err
		case <-ctx.Done():
		}
		<-simDone
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Logf("physsim: shutting down after %d ticks", run.Snapshot().Tick)
		return srv.Shutdown(shutdownCtx)
	})
}
