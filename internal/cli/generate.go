package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/polyglottis/sitemapgen"
	"github.com/polyglottis/sitemapgen/internal/config"
	"github.com/polyglottis/sitemapgen/internal/logger"
	"github.com/polyglottis/sitemapgen/internal/publish"
	"github.com/polyglottis/sitemapgen/internal/source"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [input...]",
		Short: "Write a sitemap from URL lists",
		Long: `Reads URL records from .txt, .csv, .yaml files and/or a database table
and writes the sitemap (and index, when split) to the configured output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, args)
		},
	}
	cmd.Flags().StringP("output", "o", "", "sitemap file name (overrides SITEMAP_OUTPUT)")
	cmd.Flags().String("base-url", "", "URL prefix of sitemap files in the index (overrides SITEMAP_BASE_URL)")
	cmd.Flags().String("lastmod", "", "default lastmod, \"today\" for the current date")
	cmd.Flags().String("changefreq", "", "default changefreq")
	cmd.Flags().String("priority", "", "default priority")
	cmd.Flags().Bool("db", false, "also read URLs from the configured database table")
	cmd.Flags().Bool("publish", false, "upload the written files to the configured bucket")
	return cmd
}

func runGenerate(cmd *cobra.Command, fs afero.Fs, args []string) error {
	dir, _ := cmd.Flags().GetString("config-dir")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideString(cmd, "output", &cfg.Sitemap.Output)
	overrideString(cmd, "base-url", &cfg.Sitemap.BaseURL)
	overrideString(cmd, "lastmod", &cfg.Sitemap.LastModified)
	overrideString(cmd, "changefreq", &cfg.Sitemap.ChangeFrequency)
	overrideString(cmd, "priority", &cfg.Sitemap.Priority)
	if err := cfg.Sitemap.Validate(); err != nil {
		return err
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	useDB, _ := cmd.Flags().GetBool("db")
	if len(args) == 0 && !useDB {
		return errors.New("no input: give URL files or --db")
	}

	records, err := loadRecords(cmd.Context(), fs, args, useDB, cfg.Database, log)
	if err != nil {
		return err
	}

	opts := append(cfg.Sitemap.Options(), sitemap.WithFs(fs), sitemap.WithLogger(log))
	w := sitemap.NewWriter(opts...)
	if err := source.AddAll(w, records); err != nil {
		return err
	}

	files, err := w.Write(cfg.Sitemap.Output)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}

	if publishFlag, _ := cmd.Flags().GetBool("publish"); publishFlag {
		client, err := publish.NewClient(cfg.Publish)
		if err != nil {
			return err
		}
		p := publish.NewPublisher(client, cfg.Publish, fs, log)
		if err := p.Publish(cmd.Context(), files); err != nil {
			return err
		}
	}
	return nil
}

func loadRecords(ctx context.Context, fs afero.Fs, files []string, useDB bool, dbCfg source.DatabaseConfig, log *zap.Logger) ([]source.Record, error) {
	var records []source.Record
	for _, file := range files {
		r, err := source.ReadFile(fs, file)
		if err != nil {
			return nil, err
		}
		log.Debug("Source read", zap.String("file", file), zap.Int("records", len(r)))
		records = append(records, r...)
	}

	if useDB {
		db, err := source.Connect(dbCfg)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		r, err := source.ReadDatabase(ctx, db, dbCfg)
		if err != nil {
			return nil, err
		}
		log.Debug("Source read", zap.String("table", dbCfg.Table), zap.Int("records", len(r)))
		records = append(records, r...)
	}
	return records, nil
}

func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if cmd.Flags().Changed(flag) {
		*dst, _ = cmd.Flags().GetString(flag)
	}
}
