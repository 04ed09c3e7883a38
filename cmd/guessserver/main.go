package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brownie44l1/numguess/internal/assets"
	"github.com/Brownie44l1/numguess/internal/config"
	"github.com/Brownie44l1/numguess/internal/guess"
	"github.com/Brownie44l1/numguess/internal/logging"
	"github.com/Brownie44l1/numguess/internal/router"
	"github.com/Brownie44l1/numguess/internal/server"
)

func main() {
	var (
		host   = flag.String("host", "", "host to listen on (default 127.0.0.1)")
		port   = flag.Int("port", 0, "port to listen on (default 3000)")
		client = flag.String("client", "", "serve client assets from this directory instead of the bundled ones")
		debug  = flag.Bool("debug", false, "log at debug level, including every secret number")
		help   = flag.Bool("help", false, "show help")
	)
	flag.Parse()

	if *help {
		fmt.Println("guessserver: a tiny HTTP/1.1 number guessing server")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  guessserver [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	logger := logging.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", logging.F("error", err))
		os.Exit(1)
	}

	// Flags override the environment
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *client != "" {
		cfg.ClientDir = *client
	}
	if *debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", logging.F("error", err))
		os.Exit(1)
	}

	if cfg.Debug {
		logger.SetLevel(logging.LevelDebug)
	}

	var store assets.Store = assets.Embedded()
	if cfg.ClientDir != "" {
		store = assets.Dir(cfg.ClientDir)
	}

	r := router.NewGuessRouter(store, guess.NewHandler(guess.NewSource()), logger)

	srv := server.New(r, logger)
	srv.ReadBufferSize = cfg.ReadBufferSize
	srv.Use(server.LoggingMiddleware(logger), server.RecoveryMiddleware(logger))

	if err := srv.Start(cfg.Address()); err != nil {
		logger.Error("failed to start server", logging.F("addr", cfg.Address()), logging.F("error", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("shutting down", logging.F("signal", sig.String()))

	if err := srv.Close(); err != nil {
		logger.Error("shutdown error", logging.F("error", err))
		os.Exit(1)
	}
}
