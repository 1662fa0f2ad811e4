package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/valyala/fasthttp"

	stringprocessor "github.com/baditaflorin/go_string_processor"
	"github.com/baditaflorin/go_string_processor/internal/adapters/httpapi"
	"github.com/baditaflorin/go_string_processor/internal/adapters/logger"
	"github.com/baditaflorin/go_string_processor/internal/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the server and blocks until ctx is cancelled, a termination
// signal arrives or the listener fails. The logger is closed before it returns.
func run(ctx context.Context, args []string) error {
	v := config.NewViper()
	flags, configPath, err := newFlagSet(v)
	if err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	loaded, err := config.Load(v, *configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := loaded.Config

	log, err := logger.NewStdLogger(logger.Options{
		JSON:   cfg.Logging.JSON,
		File:   cfg.Logging.File,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting string processor HTTP server",
		"port", cfg.Server.Port,
		"config_file", loaded.ConfigFile,
		"read_timeout", cfg.Server.ReadTimeout,
		"write_timeout", cfg.Server.WriteTimeout,
		"max_request_size", cfg.Server.MaxRequestSize,
		"concurrency", cfg.Server.Concurrency,
		"rate_limit_rps", cfg.Server.RateLimitRPS,
	)

	opts, err := cfg.Processor.Options()
	if err != nil {
		log.Error("Invalid processor configuration", "error", err)
		return err
	}
	processor, err := stringprocessor.New(append(opts, stringprocessor.WithLogger(log))...)
	if err != nil {
		log.Error("Failed to initialize string processor", "error", err)
		return err
	}
	log.Info("String processor initialized",
		"warm_up", cfg.Processor.WarmUp,
		"cpus", runtime.NumCPU(),
	)

	handler := httpapi.NewHandler(processor, log,
		httpapi.WithRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	)

	server := &fasthttp.Server{
		Handler:               handler.HandleRequest,
		ErrorHandler:          handler.HandleError,
		Name:                  "StringProcessor",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		MaxRequestBodySize:    cfg.Server.MaxRequestSize,
		Concurrency:           cfg.Server.Concurrency,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lc := net.ListenConfig{KeepAlive: 3 * time.Minute}
	ln, err := lc.Listen(ctx, "tcp4", addr)
	if err != nil {
		log.Error("Failed to listen", "address", addr, "error", err)
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()
	log.Info("Server listening", "address", ln.Addr().String())

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Server error", "error", err)
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Error("Error during server shutdown", "error", err)
		}
		// Serve may not have registered ln with the server yet.
		_ = ln.Close()
		<-serveErr
	}

	log.Info("Server stopped")
	return nil
}
