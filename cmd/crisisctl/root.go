package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matthewbaird/crisis/internal/catalog"
	"github.com/matthewbaird/crisis/internal/config"
)

// newRootCmd builds the command tree. Each tree owns its viper instance so
// flags, CRISIS_* variables and an optional config file resolve the same way
// they do for the server.
func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	var cfgFile string
	root := &cobra.Command{
		Use:           "crisisctl",
		Short:         "Operate the crisis text analysis engine",
		Long:          `crisisctl analyzes text with the crisis engine and manages indicator catalogs (validate, import to SQLite, export as CUE, YAML or JSON).`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v.SetEnvPrefix(config.EnvPrefix)
			v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
			v.AutomaticEnv()
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				v.SetConfigType("yaml")
				return v.ReadInConfig()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().String("catalog", "", "catalog file (.cue, .yaml or .json); overrides --db")
	root.PersistentFlags().String("db", "", "SQLite DSN of the catalog store")
	_ = v.BindPFlag("catalog_file", root.PersistentFlags().Lookup("catalog"))
	_ = v.BindPFlag("database_url", root.PersistentFlags().Lookup("db"))

	root.AddCommand(newAnalyzeCmd(v))
	root.AddCommand(newCatalogCmd(v))
	return root
}

// resolveCatalog loads the catalog selected by flags and configuration.
func resolveCatalog(ctx context.Context, v *viper.Viper) (*catalog.Catalog, catalog.Source, error) {
	return catalog.Resolve(ctx, v.GetString("catalog_file"), v.GetString("database_url"))
}
