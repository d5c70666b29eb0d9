package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/market-intel/internal/analysis"
)

var (
	analyzeCompany  string
	analyzeIndustry string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build SWOT and competitor reports",
}

var analyzeSWOTCmd = &cobra.Command{
	Use:   "swot",
	Short: "Build a SWOT analysis for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		company, err := st.GetCompanyByName(ctx, analyzeCompany)
		if err != nil {
			return eris.Wrap(err, "lookup company")
		}
		if company == nil {
			return eris.Errorf("no company named %q", analyzeCompany)
		}

		a := analysis.New(st, analysisOptions())
		swot, err := a.BuildSWOT(ctx, company.ID)
		if err != nil {
			return err
		}
		fmt.Print(analysis.RenderSWOT(swot))
		return nil
	},
}

var analyzeCompetitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Build a competitor landscape for an industry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		a := analysis.New(st, analysisOptions())
		report, err := a.BuildCompetitorReport(ctx, analyzeIndustry)
		if err != nil {
			return err
		}
		fmt.Print(analysis.RenderCompetitorReport(report))
		return nil
	},
}

func analysisOptions() analysis.Options {
	return analysis.Options{
		NewsWindowDays:  cfg.Analysis.NewsWindowDays,
		TrendWindowDays: cfg.Analysis.TrendWindowDays,
		MaxTrends:       cfg.Analysis.MaxTrends,
	}
}

func init() {
	analyzeSWOTCmd.Flags().StringVar(&analyzeCompany, "company", "", "company name (required)")
	_ = analyzeSWOTCmd.MarkFlagRequired("company")

	analyzeCompetitorsCmd.Flags().StringVar(&analyzeIndustry, "industry", "", "industry (required)")
	_ = analyzeCompetitorsCmd.MarkFlagRequired("industry")

	analyzeCmd.AddCommand(analyzeSWOTCmd, analyzeCompetitorsCmd)
	rootCmd.AddCommand(analyzeCmd)
}
