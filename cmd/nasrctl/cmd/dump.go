package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/nasr-etl/internal/decode"
	"github.com/couchcryptid/nasr-etl/internal/domain"
	"github.com/couchcryptid/nasr-etl/internal/pipeline"
)

var (
	dumpOut   string
	dumpClock string
)

var dumpCmd = &cobra.Command{
	Use:   "dump FAMILY",
	Short: "Write decoded rows of one family as a JSON array",
	Long:  "Decode one family and write the row events a pipeline run would publish, as an indented JSON array. Failing lines are skipped and reported on stderr.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOut, "out", "o", "", "output file (default stdout)")
	dumpCmd.Flags().StringVar(&dumpClock, "processed-at", "", "fixed RFC3339 processed_at for reproducible fixtures")
}

func runDump(cmd *cobra.Command, args []string) error {
	if dumpClock != "" {
		at, err := time.Parse(time.RFC3339, dumpClock)
		if err != nil {
			return fmt.Errorf("invalid --processed-at: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(at))
		defer domain.SetClock(nil)
	}

	var rows []json.RawMessage
	err := decodeFamily(cmd.Context(), openDistribution(), args[0],
		func(rec decode.Record) error {
			out, err := pipeline.Encode(rec)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "skip: %s line %d: %v\n", rec.Family, rec.Line, err)
				return nil
			}
			rows = append(rows, out.Value)
			return nil
		},
		decode.WithErrorHandler(func(err *domain.LineError) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "skip: %v\n", err)
			return nil
		}),
	)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}

	if dumpOut == "" {
		return writeJSON(cmd.OutOrStdout(), rows)
	}
	if err := os.MkdirAll(filepath.Dir(dumpOut), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(dumpOut, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := writeJSON(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
