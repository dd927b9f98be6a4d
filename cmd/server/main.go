package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cbodonnell/tavernkeep/pkg/api"
	authproviders "github.com/cbodonnell/tavernkeep/pkg/auth/providers"
	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/gamedata"
	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/version"
	"github.com/cbodonnell/tavernkeep/pkg/workers"
	"github.com/joho/godotenv"
)

type config struct {
	DatabaseURL    string        `env:"TAVERNKEEP_DATABASE_URL" envDefault:"sqlite://tavernkeep.db"`
	AuthSecret     string        `env:"TAVERNKEEP_AUTH_SECRET"`
	BackupDir      string        `env:"TAVERNKEEP_BACKUP_DIR"`
	BackupInterval time.Duration `env:"TAVERNKEEP_BACKUP_INTERVAL" envDefault:"15m"`
	TLSCertFile    string        `env:"TAVERNKEEP_TLS_CERT_FILE"`
	TLSKeyFile     string        `env:"TAVERNKEEP_TLS_KEY_FILE"`
}

func main() {
	port := flag.Int("port", 9090, "port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting %s server version %s", gamedata.SettingName, version.Get())

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		panic(fmt.Sprintf("Failed to parse environment: %v", err))
	}
	if cfg.AuthSecret == "" {
		panic("TAVERNKEEP_AUTH_SECRET environment variable must be set")
	}

	ctx := context.Background()

	authProvider, err := authproviders.NewJWTAuthProvider(cfg.AuthSecret)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse connection string: %v", err))
	}

	var repository repositories.Repository
	switch u.Scheme {
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, u.Host)
		if err != nil {
			panic(fmt.Sprintf("Failed to create SQLite repository: %v", err))
		}
	case "postgresql":
		repository, err = repositories.NewPostgresRepository(ctx, u.String())
		if err != nil {
			panic(fmt.Sprintf("Failed to create Postgres repository: %v", err))
		}
	case "memory":
		repository = repositories.NewMemoryRepository()
	default:
		panic(fmt.Sprintf("Unknown database type %s", u.Scheme))
	}
	defer repository.Close(ctx)

	broker := events.NewBroker()
	gameLedger := ledger.NewLedger(ledger.NewLedgerOptions{
		Repository: repository,
		Broker:     broker,
	})

	if cfg.BackupDir != "" {
		backupWorker := workers.NewBackupWorker(workers.NewBackupWorkerOptions{
			Ledger:     gameLedger,
			Repository: repository,
			Directory:  cfg.BackupDir,
			Interval:   cfg.BackupInterval,
		})
		go backupWorker.Start(ctx)
	}

	apiServerOpts := api.NewAPIServerOptions{
		Port:         *port,
		AuthProvider: authProvider,
		Repository:   repository,
		Ledger:       gameLedger,
		Broker:       broker,
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: cfg.TLSCertFile,
			KeyFile:  cfg.TLSKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}
