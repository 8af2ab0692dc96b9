package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matthewbaird/crisis/internal/catalog"
)

func newCatalogCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate, import and export indicator catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(), newCatalogImportCmd(v), newCatalogExportCmd(v))
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a catalog file and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				var verr *catalog.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), p)
					}
					return fmt.Errorf("%s: %d problems", args[0], len(verr.Problems))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d indicators\n", args[0], c.Len())
			return nil
		},
	}
}

func newCatalogImportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the SQLite catalog table with a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := v.GetString("database_url")
			if dsn == "" {
				return errors.New("import needs --db or CRISIS_DATABASE_URL")
			}
			c, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := catalog.OpenSQLite(ctx, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			store := catalog.NewSQLiteStore(db)
			if err := store.CreateTable(ctx); err != nil {
				return err
			}
			if err := store.Replace(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d indicators\n", c.Len())
			return nil
		},
	}
}

func newCatalogExportCmd(v *viper.Viper) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the active catalog as CUE, YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, source, err := resolveCatalog(cmd.Context(), v)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "cue":
				out, err = catalog.ExportCUE(c)
			case "yaml":
				out, err = catalog.ExportYAML(c)
			case "json":
				out, err = catalog.ExportJSON(c)
			default:
				return fmt.Errorf("unknown format %q (want cue, yaml or json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exporting %d indicators from %s\n", c.Len(), source)
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "cue", "output format: cue, yaml or json")
	return cmd
}
