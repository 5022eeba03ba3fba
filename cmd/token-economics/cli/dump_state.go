package cli

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/token-economics/internal/config"
	"github.com/babylonlabs-io/token-economics/internal/db"
)

func DumpStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-state",
		Short: "Prints the economics record and every staking pool",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}

	cmd.Flags().String("user", "", "also print the stakes of this user")

	return cmd
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}
	if cfg.Db.Type != config.DbTypeMongo {
		return fmt.Errorf("dump-state requires a mongo store, got %q", cfg.Db.Type)
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer dbClient.Close(ctx)

	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}

	econ, err := dbClient.GetEconomics(ctx)
	if err != nil {
		return err
	}
	cs.Fdump(os.Stdout, econ)

	pools, err := dbClient.ListStakingPools(ctx)
	if err != nil {
		return err
	}
	cs.Fdump(os.Stdout, pools)

	user, err := cmd.Flags().GetString("user")
	if err != nil {
		return err
	}
	if user != "" {
		stakes, err := dbClient.ListUserStakes(ctx, user)
		if err != nil {
			return err
		}
		cs.Fdump(os.Stdout, stakes)
	}

	return nil
}
