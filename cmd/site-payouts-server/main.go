package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/site-payouts/internal/config"
	"github.com/iwvelando/site-payouts/internal/server"
	"github.com/iwvelando/site-payouts/internal/store"
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Optional; PAYOUTS_* variables override the config file.
	_ = godotenv.Load()

	configLocation := flag.String("config", "", "path to configuration file (built-in defaults when empty)")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxUploadSize := flag.String("max-upload-size", "", "request body limit override, e.g. 512K or 2M")
	flag.Parse()

	var conf *config.Configuration
	var err error
	if *configLocation != "" {
		conf, err = config.LoadConfiguration(*configLocation)
	} else {
		conf, err = config.Default()
	}
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}
	if *maxUploadSize != "" {
		size, err := server.ParseSize(*maxUploadSize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid -max-upload-size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		serverConf.SetUploadSizeBytes(size)
	}

	// Server logging settings win over the application file when present.
	loggingSettings := logging.Settings(conf.Logging)
	if serverConf.Logging.Level != "" {
		loggingSettings.Level = serverConf.Logging.Level
	}
	if serverConf.Logging.Format != "" {
		loggingSettings.Format = serverConf.Logging.Format
	}
	if serverConf.Logging.OutputFile != "" {
		loggingSettings.OutputFile = serverConf.Logging.OutputFile
	}
	logger, err := logging.New(loggingSettings, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tenants, err := store.Open(ctx, store.Options(conf.Store))
	if err != nil {
		logger.Fatal("failed to open store",
			zap.String("op", "main"),
			zap.String("type", conf.Store.Type),
			zap.Error(err),
		)
	}
	defer func() {
		if err := tenants.Close(); err != nil {
			logger.Warn("failed to close store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	handler := server.NewHandler(logger, server.Deps{
		Store:          tenants,
		Config:         conf,
		Metrics:        server.NewMetrics(),
		MaxUploadSize:  serverConf.UploadSizeBytes(),
		AllowedOrigins: serverConf.AllowedOrigins,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", serverConf.Address),
			zap.String("store", conf.Store.Type),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", zap.String("op", "main"), zap.Error(err))
			return
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", zap.String("op", "main"), zap.Error(err))
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
