package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/market-intel/internal/lead"
	"github.com/sells-group/market-intel/internal/model"
	"github.com/sells-group/market-intel/internal/resolve"
	"github.com/sells-group/market-intel/internal/store"
)

var (
	leadsICPName   string
	leadsMax       int
	leadsStatus    string
	leadsLeadID    int64
	leadsNewStatus string
	leadsRescore   bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Generate, list and advance leads",
}

var leadsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Score prospect companies against a profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("scoring"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.GetICPByName(ctx, leadsICPName)
		if err != nil {
			return eris.Wrap(err, "lookup profile")
		}
		if profile == nil {
			return eris.Errorf("no profile named %q", leadsICPName)
		}

		svc := lead.NewService(st, resolve.New(st))
		max := leadsMax
		if max == 0 {
			max = cfg.Scoring.MaxProspects
		}

		var summary *lead.RunSummary
		if leadsRescore {
			summary, err = svc.Rescore(ctx, profile.ID)
		} else {
			summary, err = svc.Generate(ctx, profile.ID, max)
		}
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

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads, optionally filtered by status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.LeadFilter{}
		if leadsStatus != "" {
			status := model.LeadStatus(leadsStatus)
			if !status.Valid() {
				return eris.Errorf("unknown status %q", leadsStatus)
			}
			filter.Status = status
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}
		for _, l := range leads {
			score := "-"
			if l.Score != nil {
				score = fmt.Sprintf("%.2f", *l.Score)
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", l.ID, l.CompanyName, score, lead.FormatStatus(l.Status))
		}
		return nil
	},
}

var leadsAdvanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Move a lead to the next lifecycle state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := lead.NewService(st, resolve.New(st))
		return svc.Advance(ctx, leadsLeadID, model.LeadStatus(leadsNewStatus))
	},
}

func init() {
	leadsGenerateCmd.Flags().StringVar(&leadsICPName, "icp", "", "profile name (required)")
	leadsGenerateCmd.Flags().IntVar(&leadsMax, "max", 0, "max prospects to score (default from config)")
	leadsGenerateCmd.Flags().BoolVar(&leadsRescore, "rescore", false, "re-score existing leads instead of finding prospects")
	_ = leadsGenerateCmd.MarkFlagRequired("icp")

	leadsListCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by lifecycle status")

	leadsAdvanceCmd.Flags().Int64Var(&leadsLeadID, "id", 0, "lead id (required)")
	leadsAdvanceCmd.Flags().StringVar(&leadsNewStatus, "to", "", "target status (required)")
	_ = leadsAdvanceCmd.MarkFlagRequired("id")
	_ = leadsAdvanceCmd.MarkFlagRequired("to")

	leadsCmd.AddCommand(leadsGenerateCmd, leadsListCmd, leadsAdvanceCmd)
	rootCmd.AddCommand(leadsCmd)
}
