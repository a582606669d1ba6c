package main

import (
	"flag"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/broth/config"
	"github.com/pthm-cable/broth/game"
	"github.com/pthm-cable/broth/stream"
)

// applyOverride handles a live "set" control from a stream client.
// Only knobs that are safe to move mid-run are accepted.
func applyOverride(cfg *config.Config, ctl stream.Control) {
	switch ctl.Param {
	case "chemotaxis_gain":
		cfg.Movement.ChemotaxisGain = ctl.Value
	case "flagella_strength":
		cfg.Movement.FlagellaStrength = ctl.Value
	case "photosynthesis_rate":
		cfg.Producer.PhotosynthesisRate = ctl.Value
	case "hunt_success_rate":
		cfg.Predator.SuccessRate = ctl.Value
	case "consumption_rate":
		cfg.Energy.ConsumptionRate = ctl.Value
	case "repro_threshold":
		cfg.Reproduction.Threshold = ctl.Value
	case "repro_probability":
		cfg.Reproduction.Probability = ctl.Value
	case "decay_scale":
		cfg.Field.DecayScale = ctl.Value
	case "diffusion_scale":
		cfg.Field.DiffusionScale = ctl.Value
	default:
		slog.Warn("unknown override parameter", "param", ctl.Param)
		return
	}
	slog.Info("parameter override applied", "param", ctl.Param, "value", ctl.Value)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Base directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	listen := flag.String("listen", "", "Websocket stream address, e.g. :8080 (empty = config, then disabled)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	g, err := game.NewGame(game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	// Pause flag shared with the stream control handler. Parameter
	// overrides queue up here and apply between ticks, so the reader
	// goroutine never touches the config while Step runs.
	var paused atomic.Bool
	overrides := make(chan stream.Control, 16)

	addr := *listen
	if addr == "" {
		addr = cfg.Stream.Addr
	}
	if addr != "" {
		srv := stream.NewServer(func(ctl stream.Control) {
			switch ctl.Type {
			case "pause", "resume":
				paused.Store(ctl.Type == "pause")
				slog.Info("stream control", "type", ctl.Type)
			case "set":
				select {
				case overrides <- ctl:
				default:
					slog.Warn("override queue full, dropping", "param", ctl.Param)
				}
			}
		})
		defer srv.Close()
		g.OnSnapshot(srv.Publish)
		go func() {
			if err := srv.ListenAndServe(addr); err != nil {
				slog.Error("stream server failed", "error", err)
			}
		}()
	}

	slog.Info("starting simulation",
		"seed", g.Seed(),
		"agents", g.AliveCount(),
		"resolution", cfg.Field.Resolution,
		"max_ticks", *maxTicks,
	)

	start := time.Now()
	lastReport := start

	for {
		if paused.Load() {
			time.Sleep(50 * time.Millisecond)
			continue
		}

	drain:
		for {
			select {
			case ctl := <-overrides:
				applyOverride(cfg, ctl)
			default:
				break drain
			}
		}

		g.Step()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached",
				"tick", g.Tick(),
				"elapsed", time.Since(start).Round(time.Millisecond).String(),
			)
			return
		}

		if time.Since(lastReport) >= 10*time.Second {
			ticks := int(g.Tick())
			rate := float64(ticks) / time.Since(start).Seconds()
			slog.Info("progress",
				"ticks", humanize.Comma(int64(ticks)),
				"sim_time", humanize.CommafWithDigits(g.Elapsed(), 1)+"s",
				"alive", g.AliveCount(),
				"ticks_per_sec", int(rate),
			)
			lastReport = time.Now()
		}
	}
}
