package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/market-intel/internal/analysis"
)

var (
	trendsIndustry string
	trendsRegion   string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Build a market trend report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		a := analysis.New(st, analysisOptions())
		report, err := a.BuildTrendReport(ctx, trendsIndustry, trendsRegion)
		if err != nil {
			return err
		}
		fmt.Print(analysis.RenderTrendReport(report))
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVar(&trendsIndustry, "industry", "", "filter by industry")
	trendsCmd.Flags().StringVar(&trendsRegion, "region", "", "filter by region")
	rootCmd.AddCommand(trendsCmd)
}
