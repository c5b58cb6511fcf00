package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/distribution"
	"github.com/couchcryptid/nasr-etl/internal/families"
)

var distDir string

var rootCmd = &cobra.Command{
	Use:          "nasrctl",
	Short:        "Inspect and decode NASR fixed-width distributions",
	Long:         "Print layout tables, validate data files, and dump decoded rows for one NASR subscription cycle.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	def := os.Getenv("NASR_DISTRIBUTION_DIR")
	if def == "" {
		def = "."
	}
	rootCmd.PersistentFlags().StringVarP(&distDir, "dir", "d", def, "directory holding <FAMILY>_rf.txt and <FAMILY>.txt files")

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(dumpCmd)
}

func openDistribution() distribution.Distribution {
	return distribution.NewDirectory(distDir)
}

// selectFamilies returns args, or every family in the distribution when
// args is empty.
func selectFamilies(ctx context.Context, dist distribution.Distribution, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return dist.Families(ctx)
}

// decodeFamily runs one family's data file through its decoder.
func decodeFamily(ctx context.Context, dist distribution.Distribution, family string, emit func(decode.Record) error, opts ...decode.Option) error {
	l, err := distribution.LoadLayout(ctx, dist, family)
	if err != nil {
		return err
	}
	dispatcher, err := families.Dispatcher(l)
	if err != nil {
		return err
	}

	data, err := distribution.OpenData(ctx, dist, family)
	if err != nil {
		return err
	}
	defer data.Close()

	return decode.NewDecoder(family, dispatcher, opts...).Decode(ctx, data, emit)
}
