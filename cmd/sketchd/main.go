// Command sketchd serves saved sketches: storage, the gallery, thumbnails,
// PDF export and a live feed of new sketches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/scribble/persist"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sketchd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("sketchd", flag.ContinueOnError)
	configPath := fs.String("config", "sketchd.toml", "Path to TOML config file")
	addr := fs.String("addr", "", "Listen address (overrides config)")
	store := fs.String("store", "", "Store backend: memory or bolt (overrides config)")
	boltPath := fs.String("bolt", "", "bbolt database path (overrides config)")
	advertise := fs.Bool("mdns", false, "Advertise on the local network")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	explicit := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *store != "" {
		cfg.Store = *store
	}
	if *boltPath != "" {
		cfg.BoltPath = *boltPath
	}
	if *advertise {
		cfg.MDNS = true
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := cfg.newLogger()
	slog.SetDefault(logger)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	feed := persist.NewFeed(logger)
	defer feed.Close()
	local := persist.NewLocal(st, logger)
	local.SetFeed(feed)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           persist.NewServer(local, feed, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.MDNS {
		port := ln.Addr().(*net.TCPAddr).Port
		m, err := persist.Advertise(cfg.Instance, port)
		if err != nil {
			logger.Warn("mdns advertise failed", "err", err)
		} else {
			defer m.Shutdown()
			logger.Info("advertising", "service", persist.ServiceType, "port", port)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String(), "store", cfg.Store)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config) (persist.Store, error) {
	switch cfg.Store {
	case "bolt":
		return persist.OpenBoltStore(cfg.BoltPath)
	default:
		return persist.NewMemoryStore(), nil
	}
}
