package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/domain"
)

var errValidationFailed = errors.New("validation failed")

var maxShown int

var validateCmd = &cobra.Command{
	Use:   "validate [FAMILY...]",
	Short: "Decode every line and report failures by kind",
	Long:  "Decode the data files of the given families (default: all) and print an aggregate error summary. Exits non-zero when any line fails.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&maxShown, "show", 10, "line errors to print per family")
}

// phase tracks pass/fail for one family.
type phase struct {
	name   string
	lines  int
	rows   int
	kinds  map[string]int
	errors []*domain.LineError
	fatal  error
}

func (p *phase) failures() int {
	n := 0
	for _, c := range p.kinds {
		n += c
	}
	return n
}

func (p *phase) passed() bool { return p.fatal == nil && p.failures() == 0 }

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dist := openDistribution()
	out := cmd.OutOrStdout()

	names, err := selectFamilies(ctx, dist, args)
	if err != nil {
		return err
	}

	phases := make([]*phase, 0, len(names))
	for _, family := range names {
		p := &phase{name: family, kinds: make(map[string]int)}
		p.fatal = decodeFamily(ctx, dist, family,
			func(decode.Record) error {
				p.rows++
				return nil
			},
			decode.WithErrorHandler(func(err *domain.LineError) error {
				p.kinds[domain.Classify(err)]++
				if len(p.errors) < maxShown {
					p.errors = append(p.errors, err)
				}
				return nil
			}),
			decode.WithProgress(func(lines int) { p.lines = lines }),
		)
		phases = append(phases, p)
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		switch {
		case p.fatal != nil:
			status = "FATAL"
		case !p.passed():
			status = fmt.Sprintf("FAIL (%d errors)", p.failures())
		}
		if !p.passed() {
			allPassed = false
		}
		fmt.Fprintf(out, "  %-10s %8d lines %8d rows  %s\n", p.name, p.lines, p.rows, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		if p.fatal != nil {
			fmt.Fprintf(out, "  %v\n", p.fatal)
		}
		kinds := make([]string, 0, len(p.kinds))
		for k := range p.kinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(out, "  %-24s %d\n", k, p.kinds[k])
		}
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %v\n", i+1, e)
		}
	}

	if !allPassed {
		return errValidationFailed
	}
	fmt.Fprintln(out, "\nAll families decoded cleanly.")
	return nil
}
