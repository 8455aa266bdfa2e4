package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"runcoach/internal/analysis"
	"runcoach/internal/config"
	"runcoach/internal/logger"
	"runcoach/internal/paceprofile"
	"runcoach/internal/paceprovider"
	"runcoach/internal/render"
	"runcoach/internal/service"
	"runcoach/internal/snapshot"
	"runcoach/internal/store"
)

const usage = `Usage: runcoach [global flags] <command> [flags]

Commands:
  vdot       estimate VDOT from a race result (--distance 10k --time 45:00)
  paces      training paces and race equivalents for a VDOT (--vdot 50)
  snapshot   training snapshot for a trailing window (--user 1 --weeks 6)
  snapshots  6 week, 12 week and all-time snapshots side by side (--user 1)
  init       write an example config to ~/.runcoach/config.yaml

Global flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, render.Error(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("runcoach", flag.ContinueOnError)
	configPath := global.String("config", "", "config file (default ~/.runcoach/config.yaml)")
	metricsAddr := global.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	global.SetInterspersed(false)
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("no command given")
	}

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	if cmd == "init" {
		return initConfig()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	units := render.NewUnits(cfg.Display)
	svc := service.NewTrainingService(nil, cfg.Display.PaceUnit)

	switch cmd {
	case "vdot":
		return runVDOT(svc, cmdArgs)
	case "paces":
		return runPaces(svc, cmdArgs)
	case "snapshot", "snapshots":
		db, err := store.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		svc = service.NewTrainingService(newManager(ctx, cfg, db), cfg.Display.PaceUnit)
		if cmd == "snapshot" {
			return runSnapshot(ctx, svc, units, cmdArgs)
		}
		return runSnapshots(ctx, svc, units, cmdArgs)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrNoConfig) {
		// No file: defaults plus RUNCOACH_* overrides
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func initConfig() error {
	if err := config.CreateExample(); err != nil {
		return fmt.Errorf("creating example config: %w", err)
	}
	configDir, _ := config.GetConfigDir()
	fmt.Printf("Config file written to:\n  %s/config.yaml\n", configDir)
	return nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	slog.Info("serving metrics", "addr", addr)
	return srv
}

func newManager(ctx context.Context, cfg *config.Config, db *store.DB) *snapshot.Manager {
	settings := paceprofile.Settings{
		IntervalCutoff:     cfg.PaceProfile.IntervalCutoff,
		TempoCutoff:        cfg.PaceProfile.TempoCutoff,
		MinSamples:         cfg.PaceProfile.MinSamples,
		IntervalPercentile: cfg.PaceProfile.IntervalPercentile,
		TempoPercentile:    cfg.PaceProfile.TempoPercentile,
		MinGap:             cfg.PaceProfile.MinGap,
	}

	var provider paceprofile.BoundaryProvider
	if cfg.Provider.Enabled {
		provider = paceprovider.New(ctx, paceprovider.Config{
			BaseURL:      cfg.Provider.BaseURL,
			TokenURL:     cfg.Provider.TokenURL,
			ClientID:     cfg.Provider.ClientID,
			ClientSecret: cfg.Provider.ClientSecret,
			Timeout:      cfg.Provider.Timeout,
			MinInterval:  cfg.Provider.MinInterval,
		})
	}

	resolver := paceprofile.NewResolver(settings, provider, slog.Default())
	zones := analysis.NewHRZones(cfg.Athlete.RestingHR, cfg.Athlete.MaxHR)

	// Validate has already checked the format
	allTimeStart, _ := cfg.Snapshot.AllTimeStartDate()

	return snapshot.NewManager(snapshot.Deps{
		Activities:   db,
		Sleep:        db,
		HeartRate:    db,
		Watermarks:   db,
		Snapshots:    db,
		Builder:      snapshot.NewBuilder(resolver, zones, cfg.Snapshot.RecentLimit),
		RecoveryDays: cfg.Snapshot.RecoveryDays,
		AllTimeStart: allTimeStart,
		Logger:       slog.Default(),
	})
}

func runVDOT(svc *service.TrainingService, args []string) error {
	fs := flag.NewFlagSet("vdot", flag.ContinueOnError)
	distance := fs.String("distance", "", "race distance: 5k, 10k, half, marathon, or meters (3000, 15km)")
	raceTime := fs.String("time", "", "finish time as M:SS or H:MM:SS")
	if err := fs.Parse(args); err != nil {
		return err
	}

	meters, err := service.ParseRaceDistance(*distance)
	if err != nil {
		return err
	}
	seconds, err := service.ParseRaceTime(*raceTime)
	if err != nil {
		return err
	}

	report, err := svc.FitnessFromRace(meters, seconds)
	if err != nil {
		return err
	}
	fmt.Println(render.Fitness(report))
	return nil
}

func runPaces(svc *service.TrainingService, args []string) error {
	fs := flag.NewFlagSet("paces", flag.ContinueOnError)
	vdot := fs.Float64("vdot", 0, "VDOT value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *vdot <= 0 {
		return errors.New("--vdot must be positive")
	}

	fmt.Println(render.Fitness(svc.FitnessFromVDOT(*vdot)))
	return nil
}

func runSnapshot(ctx context.Context, svc *service.TrainingService, units render.Units, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	userID := fs.Int64("user", 1, "user ID")
	weeks := fs.Int("weeks", service.DefaultSnapshotWeeks, "trailing window in weeks")
	allTime := fs.Bool("all", false, "all-time window instead of --weeks")
	force := fs.Bool("force", false, "rebuild even if the cached snapshot is current")
	asJSON := fs.Bool("json", false, "print the raw payload as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := weeks
	if *allTime {
		w = nil
	}

	view, err := svc.Snapshot(ctx, *userID, w, *force)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(view.Payload)
	}
	fmt.Println(render.Snapshot(view, units, time.Now()))
	return nil
}

func runSnapshots(ctx context.Context, svc *service.TrainingService, units render.Units, args []string) error {
	fs := flag.NewFlagSet("snapshots", flag.ContinueOnError)
	userID := fs.Int64("user", 1, "user ID")
	force := fs.Bool("force", false, "rebuild even if the cached snapshots are current")
	asJSON := fs.Bool("json", false, "print the raw payloads as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payloads, err := svc.Snapshots(ctx, *userID, *force)
	if len(payloads) == 0 && err != nil {
		return err
	}

	if *asJSON {
		if jsonErr := printJSON(payloads); jsonErr != nil {
			return jsonErr
		}
	} else {
		fmt.Println(render.Periods(payloads, units))
	}
	// Partial results were printed; still report what failed
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
