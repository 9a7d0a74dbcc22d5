// Command ogprobe estimates optical gains on a synthetic closed loop.
//
// Usage:
//
//	ogprobe run [flags]
//	ogprobe runs [flags]
//	ogprobe show [flags] <run-id>
//
// Reports are saved to <data_dir>/ogprobe.db unless run with -store memory,
// which prints the report and keeps nothing.
//
// Examples:
//
//	ogprobe run -gain 0.6 -latency 3 -warmup 3
//	ogprobe run -config run.json -plots
//	ogprobe run -store memory
//	ogprobe runs
//	ogprobe show 1b4e28ba-2fa1-11d2-883f-0016d3cca427
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/internal/config"
	"github.com/cwbudde/algo-optgain/internal/monitoring"
	"github.com/cwbudde/algo-optgain/internal/plotting"
	"github.com/cwbudde/algo-optgain/internal/store"
	"github.com/cwbudde/algo-optgain/sim"
)

const dbFile = "ogprobe.db"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:], out)
	case "runs":
		return runRuns(ctx, args[1:], out)
	case "show":
		return runShow(ctx, args[1:], out)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: ogprobe <run|runs|show> [flags]", msg)
}

func runRun(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "JSON run configuration")
	ticks := fs.Int("ticks", 0, "loop ticks to run")
	modes := fs.Int("modes", 0, "modes per segment")
	gain := fs.Float64("gain", 0, "optical gain of the synthetic plant")
	latency := fs.Int("latency", 0, "plant latency in ticks")
	warmup := fs.Int("warmup", 0, "residuals discarded before probing")
	integrator := fs.Float64("integrator", 0, "integrator gain")
	noise := fs.Float64("noise", 0, "plant noise amplitude")
	seed := fs.Int64("seed", 0, "plant noise seed")
	storeKind := fs.String("store", "sqlite", "report store: sqlite, or memory to keep nothing after exit")
	dbPath := fs.String("db", "", "sqlite database (default <data_dir>/"+dbFile+")")
	plots := fs.Bool("plots", false, "write probe history plots to <data_dir>/plots/<run-id>")
	runID := fs.String("run-id", "", "run identifier (default random UUID)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ticks":
			cfg.Ticks = *ticks
		case "modes":
			cfg.Modes = *modes
		case "gain":
			cfg.OpticalGain = *gain
		case "latency":
			cfg.Latency = *latency
		case "warmup":
			cfg.Warmup = *warmup
		case "integrator":
			cfg.IntegratorGain = *integrator
		case "noise":
			cfg.Noise = *noise
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *runID == "" {
		*runID = uuid.NewString()
	}

	loop, err := sim.NewLoop(sim.LoopSpec{
		Config: core.ApplyLoopOptions(
			core.WithSampleRate(cfg.SampleRate),
			core.WithModes(cfg.Modes),
		),
		OpticalGain:    cfg.OpticalGain,
		Latency:        cfg.Latency,
		Noise:          cfg.Noise,
		Seed:           cfg.Seed,
		IntegratorGain: cfg.IntegratorGain,
		Warmup:         cfg.Warmup,
		ProbeAmplitude: cfg.ProbeAmplitude,
	})
	if err != nil {
		return fmt.Errorf("build loop: %w", err)
	}

	monitoring.Logf("ogprobe: run %s", *runID)
	report, err := loop.Run(ctx, cfg.Ticks)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %s (%d ticks, plant gain %.3f)\n", *runID, cfg.Ticks, cfg.OpticalGain)
	if err := report.WriteTable(out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	path := resolveDB(*dbPath, cfg.DataDir)
	if *storeKind == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	s, err := store.NewStore(*storeKind, path)
	if err != nil {
		return err
	}
	if err := s.Init(ctx); err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()
	if err := s.SaveRun(ctx, store.Run{ID: *runID, Ticks: cfg.Ticks, Report: report}); err != nil {
		return err
	}

	if *plots {
		paths, err := plotting.WriteHistories(filepath.Join(cfg.DataDir, "plots", *runID), loop.Gain.Probes())
		if err != nil {
			return fmt.Errorf("write plots: %w", err)
		}
		monitoring.Logf("ogprobe: wrote %d plots", len(paths))
	}
	return nil
}

func runRuns(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", "", "sqlite database (default <data_dir>/"+dbFile+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openSQLite(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ids, err := s.RunIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func runShow(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dbPath := fs.String("db", "", "sqlite database (default <data_dir>/"+dbFile+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("show requires exactly one run id")
	}

	s, err := openSQLite(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	id := fs.Arg(0)
	r, ok, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", id)
	}
	fmt.Fprintf(out, "run %s (%d ticks)\n", r.ID, r.Ticks)
	return r.Report.WriteTable(out)
}

func openSQLite(ctx context.Context, dbPath string) (store.Store, error) {
	cfg := config.DefaultRunConfig()
	cfg.ApplyEnv()
	s := store.NewSQLiteStore(resolveDB(dbPath, cfg.DataDir))
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func resolveDB(dbPath, dataDir string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(dataDir, dbFile)
}
