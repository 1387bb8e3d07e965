package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"persist-result/internal/config"
	"persist-result/internal/db"
	"persist-result/internal/ftp"
	"persist-result/internal/logger"
	"persist-result/internal/orchestrator"
	"persist-result/internal/runctx"
	"persist-result/internal/secrets"
	"persist-result/internal/writer"
)

func main() {
	rawData := flag.String("raw_data", "", "Directory containing the upstream output ex: ./outputs")
	flag.Parse()

	dir := strings.TrimSpace(*rawData)
	if dir == "" {
		fmt.Fprintln(os.Stderr, "usage: persist-result --raw_data <dir>")
		os.Exit(2)
	}

	start := time.Now()
	ctx := context.Background()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	provider, err := newSecretProvider(cfg)
	if err != nil {
		log.Fatalf("Secret store init failed: %v", err)
	}
	run := runctx.New(provider)
	log.Printf("Run ID %s\n", run.ID)

	persistLog, err := logger.NewDailyLogger(cfg.LogsDir, "persist", os.Stderr)
	if err != nil {
		log.Fatalf("Failed to open log in %s: %v", cfg.LogsDir, err)
	}
	defer persistLog.Close()

	p := &orchestrator.Pipeline{
		Dir:         dir,
		InputFile:   cfg.InputFile,
		InputColumn: cfg.InputColumn,
		Run:         run,
		Open: func(ctx context.Context, creds secrets.Credentials) (*sql.DB, error) {
			return db.Open(ctx, cfg.DBDriver, creds, time.Duration(cfg.TimeoutSeconds)*time.Second)
		},
		Dest:       writer.Destination{Table: cfg.DBTable, Column: cfg.DBColumn},
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		SuccessDir: cfg.FileSuccessDir,
		FailedDir:  cfg.FileFailedDir,
		Out:        os.Stdout,
		Log:        log.Default(),
		WriterLog:  persistLog,
	}

	if cfg.FTP.Enabled() {
		ftpClient, err := ftp.NewClient(cfg.FTP)
		if err != nil {
			log.Fatalf("Failed to create FTP client: %v", err)
		}
		defer ftpClient.Close()
		p.Stage = ftpClient
	}

	if _, err := p.Execute(ctx); err != nil {
		persistLog.Close()
		log.Fatalf("PERSIST FAILED: %v", err)
	}

	log.Printf("COMPLETED IN %s\n", time.Since(start))
}

func newSecretProvider(cfg *config.Config) (secrets.Provider, error) {
	switch cfg.SecretProvider {
	case config.ProviderKeyVault:
		return secrets.NewKeyVaultProvider(
			cfg.KeyVault.URL,
			cfg.KeyVault.TenantID,
			cfg.KeyVault.ClientID,
			cfg.KeyVault.ClientSecret,
		)
	default:
		return secrets.NewEnvProvider(cfg.SecretEnvPrefix), nil
	}
}
