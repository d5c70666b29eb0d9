package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/export"
	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/store"
)

var (
	exportOut      string
	exportStatus   string
	exportMinScore float64
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.LeadFilter{}
		if exportStatus != "" {
			status := model.LeadStatus(exportStatus)
			if !status.Valid() {
				return eris.Errorf("unknown status %q", exportStatus)
			}
			filter.Status = status
		}
		if cmd.Flags().Changed("min-score") {
			filter.MinScore = &exportMinScore
		}

		n, err := export.QualifiedLeads(ctx, st, filter, exportOut)
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.Int("leads", n),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output path")
	exportCmd.Flags().StringVar(&exportStatus, "status", string(model.LeadQualified), "filter by lifecycle status")
	exportCmd.Flags().Float64Var(&exportMinScore, "min-score", 0, "minimum score")
	rootCmd.AddCommand(exportCmd)
}
