package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/diffpress/internal/cache"
	"github.com/fyrsmithlabs/diffpress/internal/compression"
	"github.com/fyrsmithlabs/diffpress/internal/config"
	"github.com/fyrsmithlabs/diffpress/internal/langprio"
	"github.com/fyrsmithlabs/diffpress/internal/logging"
	"github.com/fyrsmithlabs/diffpress/internal/source"
	"github.com/fyrsmithlabs/diffpress/internal/tokens"
)

var (
	flagRepo   string
	flagPR     int
	flagSHA    string
	flagInput  string
	flagPretty bool
)

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Compress a pull request's changed files",
	Long: `Compress a pull request's changed files into the review payload.

The changed-file list is either fetched live from GitHub (--repo and
--pr, token from config or DIFFPRESS_GITHUB_TOKEN) or read as a JSON
array from a file or stdin (--input).

Examples:
  # Fetch from GitHub
  diffpress compress --repo acme/webapp --pr 421 --sha 3fc9d21

  # Offline, from a captured file listing
  diffpress compress --repo acme/webapp --pr 421 --sha 3fc9d21 --input files.json

  # From stdin
  cat files.json | diffpress compress --repo acme/webapp --pr 421 --sha 3fc9d21 --input -`,
	RunE: runCompress,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered compression strategies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range compression.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	compressCmd.Flags().StringVar(&flagRepo, "repo", "", "repository as owner/name (required)")
	compressCmd.Flags().IntVar(&flagPR, "pr", 0, "pull request number (required)")
	compressCmd.Flags().StringVar(&flagSHA, "sha", "", "head commit SHA (required)")
	compressCmd.Flags().StringVar(&flagInput, "input", "", "JSON file-change list, or - for stdin (skips the GitHub fetch)")
	compressCmd.Flags().BoolVar(&flagPretty, "pretty", false, "indent the output JSON")
	_ = compressCmd.MarkFlagRequired("repo")
	_ = compressCmd.MarkFlagRequired("pr")
	_ = compressCmd.MarkFlagRequired("sha")
}

func runCompress(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	service, err := compression.NewService(cfg.Strategy, cfg.Compression, compression.Deps{
		Counter: tokens.NewDefault(),
		Languages: langprio.New(store,
			langprio.WithTTL(cfg.LanguageCache.TTL),
			langprio.WithCacheTimeout(cfg.LanguageCache.Timeout),
			langprio.WithLogger(log.Named("langprio")),
		),
		Logger: log,
	})
	if err != nil {
		return err
	}

	files, err := loadFiles(ctx, cfg, log)
	if err != nil {
		return err
	}

	key := compression.ReviewKey{Repo: flagRepo, PRNumber: flagPR, HeadSHA: flagSHA}
	result, err := service.Compress(ctx, key, files)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if flagPretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result.Payload())
}

// openStore picks the Redis store when configured, otherwise an
// in-process one. A Redis connection failure degrades to in-memory so a
// cache outage never blocks a review.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Store, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemory(), nil
	}
	store, err := cache.NewRedis(ctx, cfg.Redis.StoreConfig())
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
		return cache.NewMemory(), nil
	}
	return store, nil
}

func loadFiles(ctx context.Context, cfg *config.Config, log *zap.Logger) ([]compression.FileChange, error) {
	if flagInput != "" {
		return readFileList(flagInput)
	}

	client, err := source.NewClient(ctx, cfg.GitHub.Token.Value(), log.Named("source"))
	if err != nil {
		return nil, err
	}
	return client.ListPRFiles(ctx, flagRepo, flagPR)
}

func readFileList(path string) ([]compression.FileChange, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var files []compression.FileChange
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode file-change list: %w", err)
	}
	return files, nil
}
