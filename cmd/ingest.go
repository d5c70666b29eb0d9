package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/market-intel/internal/ingest"
	"github.com/sells-group/market-intel/internal/normalize"
	"github.com/sells-group/market-intel/internal/resolve"
)

var ingestKind string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest raw record files into the store",
	Long: `Reads JSON files of raw records, normalizes them and upserts the results.
Each file holds an array of {"kind": ..., "data": {...}} objects, or with
--kind set, a bare array of raw objects of that kind. Pass "-" to read stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var mu sync.Mutex
		var records []ingest.Record

		g, gctx := errgroup.WithContext(ctx)
		for _, path := range args {
			path := path
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				recs, err := readRecords(path)
				if err != nil {
					return err
				}
				mu.Lock()
				records = append(records, recs...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		runner := ingest.NewRunner(resolve.New(st), cfg.Ingest.RateLimit, cfg.Ingest.Burst)
		summary, err := runner.Run(ctx, records)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode summary")
		}
		fmt.Println(string(out))
		return nil
	},
}

func readRecords(path string) ([]ingest.Record, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	if ingestKind != "" {
		var data []map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		records := make([]ingest.Record, len(data))
		for i, d := range data {
			records[i] = ingest.Record{Kind: normalize.Kind(ingestKind), Data: d}
		}
		return records, nil
	}

	var records []ingest.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return records, nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestKind, "kind", "", "treat inputs as bare arrays of this record kind")
	rootCmd.AddCommand(ingestCmd)
}
