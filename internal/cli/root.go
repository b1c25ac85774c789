package cli

import (
	"github.com/spf13/cobra"

	"github.com/chargematch/backend/config"
	"github.com/chargematch/backend/internal/infrastructure/sqlite"
)

// globalOptions are the persistent flags shared by every subcommand
type globalOptions struct {
	dbPath string
}

// NewRootCmd builds the chargematch command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "chargematch",
		Short: "Charger compatibility matching for the product catalog",
		Long: `chargematch - charger compatibility matching

Loads the product catalog into a local SQLite store, audits how well
voltage, amperage and phase can be derived from it, and ranks chargers
against a customer's battery specs.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Catalog database path (overrides catalog.db_path)")

	root.AddCommand(newCatalogCmd(opts))
	root.AddCommand(newMatchCmd(opts))

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig reads the shared configuration and applies flag overrides
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Catalog.DBPath = o.dbPath
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*sqlite.CatalogStore, error) {
	return sqlite.Open(cfg.Catalog.DBPath)
}
