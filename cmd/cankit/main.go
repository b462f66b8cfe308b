package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/cankit/cankit/internal/config"
	cankiterrors "github.com/cankit/cankit/internal/errors"
	"github.com/cankit/cankit/internal/history"
	"github.com/cankit/cankit/internal/metrics"
	"github.com/cankit/cankit/internal/pipeline"
	"github.com/cankit/cankit/internal/toolchain"
	"github.com/cankit/cankit/internal/version"
	"github.com/cankit/cankit/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Project configuration file path" default:"cankit.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Canister string `arg:"" optional:"" help:"Canister to build (default: all)"`
		History  string `help:"Record build events to this sqlite database"`
	} `cmd:"" help:"Build canisters once and exit"`

	Watch struct {
		Canister    string `arg:"" optional:"" help:"Canister to watch (default: all)"`
		History     string `help:"Record build events to this sqlite database"`
		MetricsAddr string `help:"Expose Prometheus metrics on this address (e.g. :9100)"`
	} `cmd:"" help:"Build canisters and rebuild whenever their sources change"`

	Cache struct {
		Ensure struct{} `cmd:"" help:"Install the project toolchain version into the cache"`
	} `cmd:"" help:"Manage the toolchain cache"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	// .env is optional; used for CANKIT_CACHE_ROOT and friends in dev setups.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	adapter := cankiterrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	var err error
	switch ctx.Command() {
	case "build", "build <canister>":
		err = runBuild(CLI.Build.Canister, CLI.Build.History)
	case "watch", "watch <canister>":
		err = runWatch(CLI.Watch.Canister, CLI.Watch.History, CLI.Watch.MetricsAddr)
	case "cache ensure":
		err = runCacheEnsure()
	case "version":
		fmt.Printf("cankit %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}

	adapter.HandleError(classify(err))
}

func logLevel() slog.Level {
	if CLI.Verbose {
		return slog.LevelDebug
	}
	switch os.Getenv("CANKIT_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); err == nil {
		return config.Load(CLI.Config)
	}
	return config.FromCurrentDir()
}

func newResolver() (*toolchain.Resolver, error) {
	root := os.Getenv("CANKIT_CACHE_ROOT")
	if root == "" {
		var err error
		root, err = toolchain.DefaultCacheRoot()
		if err != nil {
			return nil, err
		}
	}
	return toolchain.NewResolver(root), nil
}

// selectCanisters returns the buildable canisters: the named one, or every
// canister with a main source file.
func selectCanisters(cfg *config.Config, name string) ([]string, error) {
	if name != "" {
		if _, ok := cfg.MainPath(name); !ok {
			return nil, fmt.Errorf("canister %q not found or has no main source file", name)
		}
		return []string{name}, nil
	}
	var names []string
	for _, n := range cfg.CanisterNames() {
		if _, ok := cfg.MainPath(n); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func newPipeline(cfg *config.Config, rec metrics.Recorder) (*pipeline.Pipeline, error) {
	resolver, err := newResolver()
	if err != nil {
		return nil, err
	}
	v, err := toolchain.ParseVersion(cfg.Toolchain.Version)
	if err != nil {
		return nil, err
	}
	return pipeline.New(resolver, v).WithRecorder(rec), nil
}

func openHistory(path, trigger string) (*history.SQLiteStore, *history.Recorder, error) {
	if path == "" {
		return nil, nil, nil
	}
	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open history store: %w", err)
	}
	return store, history.NewRecorder(store, trigger), nil
}

func runBuild(canister, historyPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	names, err := selectCanisters(cfg, canister)
	if err != nil {
		return err
	}

	p, err := newPipeline(cfg, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	store, rec, err := openHistory(historyPath, "oneshot")
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	for _, name := range names {
		input, _ := cfg.MainPath(name)
		stem, _ := cfg.OutputStem(name)

		fmt.Printf("Building %s...\n", name)
		if rec != nil {
			rec.OnStart(input)
		}
		if buildErr := p.Run(input, stem); buildErr != nil {
			if rec != nil {
				rec.OnError(buildErr)
			}
			return buildErr
		}
		if rec != nil {
			rec.OnDone(stem)
		}
	}
	return nil
}

func runWatch(canister, historyPath, metricsAddr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	names, err := selectCanisters(cfg, canister)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no canisters with a main source file to watch")
	}

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if metricsAddr != "" {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		go func() {
			if serveErr := metrics.Serve(metricsAddr, reg); serveErr != nil {
				slog.Error("metrics listener failed", "addr", metricsAddr, "error", serveErr)
			}
		}()
	}

	p, err := newPipeline(cfg, rec)
	if err != nil {
		return err
	}

	store, _, err := openHistory(historyPath, "watch")
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	supervisor := watch.NewSupervisor(p, watch.Options{}).WithRecorder(rec)

	handles := make([]*watch.Handle, 0, len(names))
	for _, name := range names {
		input, _ := cfg.MainPath(name)
		stem, _ := cfg.OutputStem(name)

		var notifier watch.Notifier = &consoleNotifier{canister: name}
		if store != nil {
			// One recorder per worker: rebuilds of a file are sequential.
			notifier = watch.MultiNotifier{notifier, history.NewRecorder(store, "watch")}
		}

		handle, watchErr := supervisor.Watch(input, stem, notifier)
		if watchErr != nil {
			for _, h := range handles {
				h.Cancel()
			}
			return watchErr
		}
		handles = append(handles, handle)
		slog.Info("watching", "canister", name, "path", input)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	slog.Info("shutting down watchers")
	for _, h := range handles {
		h.Cancel()
	}
	for _, h := range handles {
		<-h.Done()
	}
	return nil
}

func runCacheEnsure() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolver, err := newResolver()
	if err != nil {
		return err
	}
	v, err := toolchain.ParseVersion(cfg.Toolchain.Version)
	if err != nil {
		return err
	}

	dist := os.Getenv("CANKIT_TOOLCHAIN_DIST")
	if dist == "" {
		return fmt.Errorf("toolchain download is not implemented; set CANKIT_TOOLCHAIN_DIST to a local distribution directory")
	}
	inst := &toolchain.DirInstaller{Dist: dist, Resolver: resolver}
	if err := resolver.Ensure(context.Background(), inst, v); err != nil {
		return err
	}
	slog.Info("toolchain installed", "version", v.String(), "root", resolver.VersionRoot(v))
	return nil
}

// classify maps typed domain errors onto the categorized CLI error type so
// the adapter picks stable exit codes.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		notInstalled *toolchain.NotInstalledError
		precondition *pipeline.PreconditionError
		stepErr      *pipeline.StepError
	)
	switch {
	case errors.As(err, &notInstalled):
		return cankiterrors.ToolchainNotInstalled(notInstalled.Version.String())
	case errors.As(err, &precondition):
		return cankiterrors.OutputDirError(precondition.Dir, precondition.Err)
	case errors.As(err, &stepErr):
		return cankiterrors.BuildFailed(string(stepErr.Stage), err).WithContext("stderr", stepErr.Stderr)
	default:
		return err
	}
}
