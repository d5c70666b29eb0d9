package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/market-intel/internal/icp"
	"github.com/sells-group/market-intel/internal/model"
)

var (
	icpName string
	icpFile string
)

var icpCmd = &cobra.Command{
	Use:   "icp",
	Short: "Manage Ideal Customer Profiles",
}

var icpDefineCmd = &cobra.Command{
	Use:   "define",
	Short: "Create or replace a profile from a YAML criteria file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(icpFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", icpFile)
		}
		criteria, err := icp.ParseYAML(raw)
		if err != nil {
			return err
		}
		encoded, err := criteria.JSON()
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		existing, err := st.GetICPByName(ctx, icpName)
		if err != nil {
			return eris.Wrap(err, "lookup profile")
		}
		if existing != nil {
			existing.CriteriaJSON = encoded
			if err := st.UpdateICP(ctx, existing); err != nil {
				return eris.Wrap(err, "update profile")
			}
			zap.L().Info("profile updated", zap.String("name", icpName))
			return nil
		}

		id, err := st.InsertICP(ctx, &model.ICP{ProfileName: icpName, CriteriaJSON: encoded})
		if err != nil {
			return eris.Wrap(err, "create profile")
		}
		zap.L().Info("profile created", zap.String("name", icpName), zap.Int64("id", id))
		return nil
	},
}

var icpShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a profile's criteria",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.GetICPByName(ctx, icpName)
		if err != nil {
			return eris.Wrap(err, "lookup profile")
		}
		if profile == nil {
			return eris.Errorf("no profile named %q", icpName)
		}

		out, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode profile")
		}
		fmt.Println(string(out))
		return nil
	},
}

var icpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.ListICPs(ctx)
		if err != nil {
			return eris.Wrap(err, "list profiles")
		}
		for _, p := range profiles {
			lastUsed := "never"
			if p.LastUsed != nil {
				lastUsed = p.LastUsed.Format("2006-01-02")
			}
			fmt.Printf("%d\t%s\tlast used %s\n", p.ID, p.ProfileName, lastUsed)
		}
		return nil
	},
}

func init() {
	icpDefineCmd.Flags().StringVar(&icpName, "name", "", "profile name (required)")
	icpDefineCmd.Flags().StringVar(&icpFile, "file", "", "YAML criteria file (required)")
	_ = icpDefineCmd.MarkFlagRequired("name")
	_ = icpDefineCmd.MarkFlagRequired("file")

	icpShowCmd.Flags().StringVar(&icpName, "name", "", "profile name (required)")
	_ = icpShowCmd.MarkFlagRequired("name")

	icpCmd.AddCommand(icpDefineCmd, icpShowCmd, icpListCmd)
	rootCmd.AddCommand(icpCmd)
}
