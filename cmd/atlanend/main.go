package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atlanend/internal/capture"
	"atlanend/internal/catalog"
	"atlanend/internal/config"
	"atlanend/internal/ics"
	appLog "atlanend/internal/log"
	"atlanend/internal/storage"
	"atlanend/internal/store"
	"atlanend/internal/web"
)

const version = "0.1.0"

type flagConfig struct {
	configPath string
	listen     string
	export     string
	snapshot   string
	ephemeral  bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if err := conf.Validate(); err != nil {
		appLog.Error("invalid config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	defer appLog.Sync()

	appLog.Info("atlanend starting", "version", version)
	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"data_dir", conf.DataDir,
		"storage_key", conf.StorageKey,
		"catalog_path", conf.CatalogPath,
		"catalog_url_set", conf.CatalogURL != "",
		"backup_cron", conf.BackupCron,
		"ephemeral", flags.ephemeral,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	activities, err := catalog.Load(ctx, catalog.Options{
		Path:     conf.CatalogPath,
		URL:      conf.CatalogURL,
		CacheDir: conf.CatalogCacheDir,
	})
	if err != nil {
		appLog.Error("failed to load catalog", err)
		os.Exit(1)
	}

	var (
		st       storage.Storage
		fileStor *storage.FileStorage
	)
	if flags.ephemeral {
		st = storage.NewMemoryStorage()
	} else {
		fileStor, err = storage.NewFileStorage(conf.DataDir)
		if err != nil {
			appLog.Error("failed to open data dir", err, "data_dir", conf.DataDir)
			os.Exit(1)
		}
		st = fileStor
	}

	planner := store.New(activities, st, store.WithStorageKey(conf.StorageKey))
	planner.Load()

	if flags.export != "" {
		if err := runExport(os.Stdout, planner, flags.export, conf); err != nil {
			appLog.Error("export failed", err, "format", flags.export)
			os.Exit(1)
		}
		return
	}

	handler := web.NewServer(planner, web.Options{
		Location:    conf.Location(),
		CORSOrigins: conf.CORSOrigins,
	}).Handler()
	srv := &http.Server{
		Addr:              conf.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if flags.snapshot != "" {
		if err := runSnapshot(ctx, srv, flags.snapshot); err != nil {
			appLog.Error("snapshot failed", err, "output", flags.snapshot)
			os.Exit(1)
		}
		return
	}

	if fileStor != nil {
		sched, err := startBackups(conf, fileStor, planner)
		if err != nil {
			appLog.Error("failed to schedule backups", err, "backup_cron", conf.BackupCron)
			os.Exit(1)
		}
		if sched != nil {
			defer func() { <-sched.Stop().Done() }()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("http server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("http shutdown failed", err)
	}
	if err := planner.Save(); err != nil {
		appLog.Error("final save failed", err)
	}
	appLog.Info("atlanend exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./atlanend.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.export, "export", "", "Print the saved plan as json, ics or text and exit")
	flag.StringVar(&cfg.snapshot, "snapshot", "", "Write a PNG of the agenda page to this path and exit")
	flag.BoolVar(&cfg.ephemeral, "ephemeral", false, "Keep state in memory only")

	flag.Parse()

	return cfg
}

func runExport(w io.Writer, planner *store.Store, format string, conf *config.Config) error {
	var out string
	switch format {
	case "json":
		body, err := planner.ExportSchedule()
		if err != nil {
			return err
		}
		out = body + "\n"
	case "ics":
		loc := conf.Location()
		now := time.Now()
		weekend, err := ics.NextWeekend(now, loc)
		if err != nil {
			return err
		}
		out = ics.Build(planner.Schedule(), weekend, ics.Options{Location: loc, Now: now, Name: "Weekend Plan"})
	case "text":
		out = planner.ShareText() + "\n"
	default:
		return fmt.Errorf("unknown export format %q (want json, ics or text)", format)
	}
	_, err := io.WriteString(w, out)
	return err
}

// runSnapshot serves the agenda just long enough to capture it.
func runSnapshot(ctx context.Context, srv *http.Server, output string) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("snapshot server failed", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return capture.CaptureAgendaPNG(ctx, capture.Options{
		URL:        "http://" + dialAddr(ln.Addr()) + "/agenda",
		OutputPath: output,
	})
}

// dialAddr turns a listener address into one a local client can reach.
func dialAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
