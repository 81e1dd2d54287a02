// ABOUTME: The run subcommand executing one end-to-end archive run
// ABOUTME: Wires config, storage backend, API driver and services, and handles signals

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"compliance-archiver/config"
	"compliance-archiver/driver"
	"compliance-archiver/models"
	"compliance-archiver/repository"
	"compliance-archiver/service"
)

var (
	flagSince     int64
	flagUntil     int64
	flagNoResume  bool
	flagNoSmart   bool
	flagBackend   string
	flagOutputDir string
	flagUsers     []string
	flagRateDelay time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one incremental archive run",
	Long: `Executes one end-to-end archive run: computes the fetch window from the
persisted watermark (or an explicit override), pages through the workspace
conversation listing, partitions records by user and date, writes artifacts
and daily summaries, then advances the watermark.

SIGINT/SIGTERM stops the fetch loop after the in-flight page; everything
accumulated so far is still partitioned, written and reflected in the
watermark. A second signal aborts the run.`,
	RunE: runArchive,
}

func init() {
	runCmd.Flags().Int64Var(&flagSince, "since-timestamp", 0, "fetch conversations since this Unix timestamp (overrides the watermark)")
	runCmd.Flags().Int64Var(&flagUntil, "until-timestamp", 0, "fetch conversations until this Unix timestamp (0 = open)")
	runCmd.Flags().BoolVar(&flagNoResume, "no-resume", false, "do not resume from a previous pagination checkpoint")
	runCmd.Flags().BoolVar(&flagNoSmart, "no-smart-incremental", false, "always start from the initial epoch instead of the watermark")
	runCmd.Flags().StringVar(&flagBackend, "backend", "", "storage backend: local or minio (default from STORAGE_BACKEND)")
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "output directory for the local backend (default from OUTPUT_DIR)")
	runCmd.Flags().StringSliceVar(&flagUsers, "users", nil, "restrict the fetch to specific user IDs")
	runCmd.Flags().DurationVar(&flagRateDelay, "rate-limit-delay", 0, "delay between API requests (default 1.2s)")

	rootCmd.AddCommand(runCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagOutputDir != "" {
		cfg.Storage.OutputDir = flagOutputDir
	}
	if len(flagUsers) > 0 {
		cfg.Fetch.Users = flagUsers
	}
	if flagRateDelay > 0 {
		cfg.Fetch.RateLimitDelay = flagRateDelay
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger.Info("Compliance archiver starting",
		"service", cfg.ServiceName,
		"backend", cfg.Storage.Backend,
		"workspace_id", cfg.API.WorkspaceID,
		"smart_incremental", cfg.Fetch.SmartIncremental && !flagNoSmart)

	store, watermarkKey, err := buildObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	client := driver.NewComplianceClient(cfg.API.APIKey, cfg.API.WorkspaceID, cfg.API.BaseURL, cfg.API.Timeout, logger)

	checkpoints := repository.NewStoreCheckpointRepository(store, repository.CheckpointKey, logger)
	watermarks := repository.NewStoreWatermarkRepository(store, watermarkKey, logger)
	artifacts := repository.NewStoreArtifactRepository(store, cfg.ServiceName, logger)

	fetcher := service.NewConversationFetchService(client, checkpoints, service.FetchConfig{
		PageSize:       cfg.Fetch.PageSize,
		RateLimitDelay: cfg.Fetch.RateLimitDelay,
		Users:          cfg.Fetch.Users,
	}, logger)

	retryConfig := service.DefaultRetryConfig()
	retryConfig.MaxRetries = cfg.Fetch.MaxRetries
	fetcher.SetRetryConfig(retryConfig)

	// First signal requests a graceful stop after the in-flight page; a
	// second one aborts the run.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		logger.Info("Received interrupt signal, finishing current request and saving progress")
		fetcher.Stop()
		<-signals
		logger.Warn("Second interrupt signal, aborting run")
		cancel()
	}()

	orchestrator := service.NewBackupRunService(
		fetcher,
		service.NewPartitionService(logger),
		artifacts,
		watermarks,
		checkpoints,
		logger,
	)

	opts := service.RunOptions{
		Resume:           !flagNoResume,
		SmartIncremental: cfg.Fetch.SmartIncremental && !flagNoSmart,
	}
	if flagSince > 0 {
		opts.Window = &models.FetchWindow{Since: flagSince, Until: flagUntil}
		opts.SmartIncremental = false
	} else if flagUntil > 0 {
		opts.Window = &models.FetchWindow{Since: models.InitialStartDate.Unix(), Until: flagUntil}
	}

	result := orchestrator.Run(ctx, opts)

	output, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		fmt.Fprintln(os.Stdout, string(output))
	}

	if result.Status != models.RunStatusSuccess {
		return fmt.Errorf("archive run failed: %w", result.Err)
	}

	logger.Info("Compliance archiver completed successfully",
		"total_conversations", result.TotalConversations,
		"files_uploaded", result.FilesUploaded,
		"elapsed", time.Since(result.Stats.StartTime).String())

	return nil
}

// buildObjectStore selects the storage backend and the matching watermark
// key convention.
func buildObjectStore(ctx context.Context, cfg *config.Config) (repository.ObjectStore, string, error) {
	switch cfg.Storage.Backend {
	case config.BackendMinio:
		store, err := repository.NewMinioObjectStore(ctx, repository.MinioConfig{
			Endpoint:  cfg.Storage.MinioEndpoint,
			AccessKey: cfg.Storage.MinioAccessKey,
			SecretKey: cfg.Storage.MinioSecretKey,
			Bucket:    cfg.Storage.MinioBucket,
			UseSSL:    cfg.Storage.MinioUseSSL,
		}, logger)
		if err != nil {
			return nil, "", err
		}
		return store, repository.ObjectStoreWatermarkKey, nil
	default:
		store, err := repository.NewLocalObjectStore(cfg.Storage.OutputDir, logger)
		if err != nil {
			return nil, "", err
		}
		return store, repository.LocalWatermarkKey, nil
	}
}
