package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargematch/backend/internal/domain"
	"github.com/chargematch/backend/internal/infrastructure/export"
	"github.com/chargematch/backend/internal/infrastructure/seed"
	"github.com/chargematch/backend/internal/infrastructure/storefront"
	"github.com/chargematch/backend/internal/usecase"
)

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage and audit the product catalog",
	}

	cmd.AddCommand(newCatalogImportCmd(opts))
	cmd.AddCommand(newCatalogSyncCmd(opts))
	cmd.AddCommand(newCatalogAuditCmd(opts))

	return cmd
}

func newCatalogImportCmd(opts *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products from a YAML seed file",
		Long: `Import products from a YAML seed file into the catalog store.

Existing products with the same id are replaced.

Examples:
  chargematch catalog import --file testdata/products.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := usecase.NewCatalogSyncService(store, nil, nil).Import(cmd.Context(), products)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products into %s\n", n, cfg.Catalog.DBPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level products list")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newCatalogSyncCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the full product listing from the storefront API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storefront.BaseURL == "" {
				return fmt.Errorf("storefront.base_url is required (set CHARGEMATCH_STOREFRONT_BASE_URL)")
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			client := storefront.NewClient(
				cfg.Storefront.APIKey,
				cfg.Storefront.BaseURL,
				cfg.Storefront.PageSize,
				cfg.Storefront.RequestsPerSecond,
			)
			client.SetDebug(cfg.Server.Environment == "development")

			n, err := usecase.NewCatalogSyncService(store, client, nil).Sync(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d products from %s\n", n, cfg.Storefront.BaseURL)
			return nil
		},
	}
}

func newCatalogAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		category string
		out      string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report how well specs can be derived from the catalog",
		Long: `Scan every product, bucket it by derived signature
(voltage|amperage|phase|family) and list extraction gaps.

Examples:
  chargematch catalog audit
  chargematch catalog audit --category chargers --out audit.xlsx
  chargematch catalog audit --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			catalog, err := usecase.NewCatalogService(nil, store, usecase.CatalogServiceConfig{}).
				Snapshot(cmd.Context(), category)
			if err != nil {
				return err
			}

			report, err := usecase.NewCatalogAuditor().Audit(cmd.Context(), catalog)
			if err != nil {
				return err
			}

			if out != "" {
				if err := export.SaveAuditWorkbook(report, out); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(w, "Products: %d (%d with voltage and amperage)\n", report.Total, report.Complete)
			fmt.Fprintf(w, "\nBuckets (voltage|amperage|phase|family):\n")
			for _, b := range report.Buckets {
				fmt.Fprintf(w, "  %-40s %d\n", b.Key, b.Count)
			}
			fmt.Fprintf(w, "\nAnomalies: %d missing spec, %d phase mismatch\n",
				report.CountAnomalies(domain.AnomalyMissingSpec),
				report.CountAnomalies(domain.AnomalyPhaseMismatch))
			for _, a := range report.Anomalies {
				fmt.Fprintf(w, "  [%s] %s (%s): %s\n", a.Kind, a.Slug, a.ProductID, a.Detail)
			}
			if out != "" {
				fmt.Fprintf(w, "\nWorkbook written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only audit this category")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write an xlsx workbook to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
