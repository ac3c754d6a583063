package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wildwoodlodge/lodge"
	"github.com/wildwoodlodge/lodge/catalog"
)

func sitemapCmd(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var out, dbPath string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for static hosting",
		Long: `Builds the same document /sitemap.xml serves, from the embedded
catalog, and writes it to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if dbPath == "" {
				dir, err := os.MkdirTemp("", "lodge-sitemap-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(dir)
				dbPath = filepath.Join(dir, "index.db")
			}

			cat, err := catalog.Default()
			if err != nil {
				return err
			}
			store, err := lodge.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if err := store.SyncIndex(ctx, lodge.IndexKinds, lodge.CatalogIndex(cat)); err != nil {
				return fmt.Errorf("index catalog: %w", err)
			}

			baseURL := lodge.EnvOr("LODGE_SITE_URL", "http://localhost:3000")
			var buf bytes.Buffer
			complete, err := lodge.NewSitemapGenerator(baseURL, store, logger, nil).Render(ctx, &buf)
			if err != nil {
				return err
			}
			if !complete {
				return fmt.Errorf("sitemap incomplete, not writing %s", out)
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			logger.Info("sitemap written", zap.String("path", out), zap.Int("bytes", buf.Len()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "public/sitemap.xml", "Output file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Index database (default: temporary)")
	return cmd
}
