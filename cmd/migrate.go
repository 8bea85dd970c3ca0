package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-shop/cmd/config"
	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/migration"
)

func NewMigrateCmd() *cobra.Command {
	var (
		migrateDryRun  bool
		migrateVerbose bool
		toDriver       string
		toOptions      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the stored list to another storage driver",
		Long: `Copy the stored aisles and items from the configured storage driver to
another one. The copy is read back and compared before the command reports
success. Switch the storage.driver setting afterwards to use the new store.

Examples:
  shop migrate --to sqlite --dry-run
  shop migrate --to sqlite --to-option path=/tmp/shop.db
  shop migrate --to s3 --to-option bucket=groceries --to-option region=eu-west-1`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{NoServiceAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if toDriver == settings.Storage.Driver && len(toOptions) == 0 {
				return fmt.Errorf("source and destination are both the %s driver", toDriver)
			}

			ctx := cmd.Context()
			src, err := blob.Open(ctx, blob.Config{
				Driver:  blob.Driver(settings.Storage.Driver),
				DataDir: settings.DataDir,
				Options: settings.Storage.Options,
			})
			if err != nil {
				return fmt.Errorf("open source store: %w", err)
			}
			defer src.Close()

			options := make(map[string]any, len(toOptions))
			for k, v := range toOptions {
				options[k] = v
			}
			dst, err := blob.Open(ctx, blob.Config{
				Driver:  blob.Driver(toDriver),
				DataDir: settings.DataDir,
				Options: options,
			})
			if err != nil {
				return fmt.Errorf("open destination store: %w", err)
			}
			defer dst.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Copying %s -> %s\n", src.Driver(), dst.Driver())

			m := migration.NewMigrator(migration.MigrationOptions{
				DryRun:  migrateDryRun,
				Verbose: migrateVerbose,
			}, out, nil)
			err = m.CopyStore(ctx, src, dst)
			report := m.Report()
			report.Complete()
			printMigrationReport(out, report, migrateDryRun)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toDriver, "to", "", "Destination driver: fs, sqlite or s3")
	cmd.Flags().StringToStringVar(&toOptions, "to-option", nil, "Destination driver option as key=value (repeatable)")
	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be copied without writing")
	cmd.Flags().BoolVar(&migrateVerbose, "verbose", false, "Show detailed output")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func printMigrationReport(w io.Writer, report *migration.MigrationReport, dryRun bool) {
	fmt.Fprintf(w, "\nMigration Report\n")
	fmt.Fprintf(w, "================\n")
	fmt.Fprintf(w, "Blobs copied:    %d\n", report.BlobsCopied)
	fmt.Fprintf(w, "Failed:          %d\n", len(report.ProcessingErrors))
	fmt.Fprintf(w, "Duration:        %s\n", report.Duration())

	if len(report.ProcessingErrors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for key, err := range report.ProcessingErrors {
			fmt.Fprintf(w, "  %s: %v\n", key, err)
		}
	}

	if dryRun {
		fmt.Fprintln(w, "\nDry run complete. Nothing was written.")
	}
}
