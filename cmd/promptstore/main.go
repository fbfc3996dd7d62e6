package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/atinyakov/chat-prompt-store/internal/app/server"
	"github.com/atinyakov/chat-prompt-store/internal/app/service"
	"github.com/atinyakov/chat-prompt-store/internal/config"
	"github.com/atinyakov/chat-prompt-store/internal/cosmos"
	"github.com/atinyakov/chat-prompt-store/internal/logger"
	"github.com/atinyakov/chat-prompt-store/internal/repository"
	"github.com/atinyakov/chat-prompt-store/internal/storage"
	"github.com/atinyakov/chat-prompt-store/internal/worker"
)

var buildVersion string
var buildDate string
var buildCommit string

const shutdownTimeout = 5 * time.Second

func main() {
	printBuildInfo(os.Stdout)

	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if usage, uErr := config.Usage(); uErr == nil {
			fmt.Fprintln(os.Stderr, usage)
		}
		os.Exit(2)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, log.Log); err != nil {
		log.Log.Error("server stopped", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func printBuildInfo(w io.Writer) {
	value := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}

	fmt.Fprintf(w, "Build version: %s\n", value(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", value(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", value(buildCommit))
}

// openContainer picks the backend: Cosmos DB, then PostgreSQL, then a
// journal file, then memory. The returned func releases it.
func openContainer(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (storage.Container, func() error, error) {
	noop := func() error { return nil }

	cosmosOpts := cosmos.Options{
		ConnectionString: options.CosmosConnectionString,
		Endpoint:         options.CosmosEndpoint,
		Key:              options.CosmosKey,
		Database:         options.CosmosDatabase,
		Container:        options.CosmosContainer,
	}

	switch {
	case cosmosOpts.Enabled():
		zapLogger.Info("using cosmos db", zap.String("database", cosmosOpts.Database), zap.String("container", cosmosOpts.Container))
		provider, err := cosmos.NewProvider(cosmosOpts)
		if err != nil {
			return nil, nil, err
		}
		c, err := provider.Container(zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil

	case options.DatabaseDSN != "":
		zapLogger.Info("using postgres")
		db, err := repository.InitDB(ctx, options.DatabaseDSN, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return repository.CreatePromptRepository(db, zapLogger), db.Close, nil

	case options.FileStoragePath != "":
		zapLogger.Info("using file", zap.String("path", options.FileStoragePath))
		fs, err := storage.NewFileStorage(options.FileStoragePath, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Close, nil

	default:
		zapLogger.Info("using in memory storage")
		mem, err := storage.CreateMemoryStorage()
		if err != nil {
			return nil, nil, err
		}
		return mem, noop, nil
	}
}

// run serves until ctx is cancelled or the listener fails, then drains the
// delete worker.
func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	container, release, err := openContainer(ctx, options, zapLogger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := release(); err != nil {
			zapLogger.Warn("cannot close storage", zap.Error(err))
		}
	}()

	var storeOpts []service.Option
	if options.OptimisticConcurrency {
		storeOpts = append(storeOpts, service.WithOptimisticConcurrency())
	}
	store := service.NewPromptStore(container, zapLogger, storeOpts...)

	deleter := worker.NewDeleteTaskWorker(zapLogger, store,
		worker.WithFlushInterval(time.Duration(options.DeleteFlushInterval)),
	)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		deleter.Run(workerCtx)
		close(workerDone)
	}()
	defer func() {
		stopWorker()
		<-workerDone
	}()

	srv := &http.Server{
		Addr:              options.ServerAddress,
		Handler:           server.Init(store, service.NewAuth(options.JWTSecret), deleter, options.SessionKey, zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	if options.EnableHTTPS {
		manager := &autocert.Manager{
			Cache:      autocert.DirCache("cache-dir"),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(options.TLSHosts...),
		}
		srv.Addr = ":443"
		srv.TLSConfig = manager.TLSConfig()

		zapLogger.Info("Server is running with TLS", zap.Strings("hosts", options.TLSHosts))
		go func() { serveErr <- srv.ListenAndServeTLS("", "") }()
	} else {
		zapLogger.Info("Server is running", zap.String("address", options.ServerAddress))
		go func() { serveErr <- srv.ListenAndServe() }()
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
