package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nasr-etl/internal/distribution"
	"github.com/couchcryptid/nasr-etl/internal/families"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [FAMILY...]",
	Short: "Print the field tables loaded from layout files",
	Long:  "Print the field tables of each family. Without arguments, list the families that have a record definition.",
	RunE:  runLayout,
}

func runLayout(cmd *cobra.Command, args []string) error {
	dist := openDistribution()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintf(out, "defined families: %s\n", strings.Join(families.Known(), ", "))
		return nil
	}

	for _, family := range args {
		l, err := distribution.LoadLayout(cmd.Context(), dist, family)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d groups, line length %d\n", l.Family, len(l.Tables), l.LineLength())
		if _, ok := families.Lookup(l.Family); !ok {
			fmt.Fprintln(out, "  no record definition, decoded as strings")
		}
		for gi, t := range l.Tables {
			fmt.Fprintf(out, "  group %d (%d fields)\n", gi, len(t.Fields))
			for fi, f := range t.Fields {
				id := f.ID.String()
				if id == "" {
					id = "-"
				}
				fmt.Fprintf(out, "    %3d  %-8s %5d-%-5d %4d\n", fi, id, f.Start+1, f.End, f.Len())
			}
		}
	}
	return nil
}
