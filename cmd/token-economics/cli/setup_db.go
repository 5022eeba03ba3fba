package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/babylonlabs-io/token-economics/internal/config"
	dbmodel "github.com/babylonlabs-io/token-economics/internal/db/model"
)

func SetupDbCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-db",
		Short: "Creates the mongo collections and indexes",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(GetConfigPath())
			if err != nil {
				return err
			}
			if cfg.Db.Type != config.DbTypeMongo {
				return fmt.Errorf("setup-db requires a mongo store, got %q", cfg.Db.Type)
			}

			if err := dbmodel.Setup(cmd.Context(), &cfg.Db); err != nil {
				return err
			}
			log.Info().Str("db", cfg.Db.DbName).Msg("db is ready")
			return nil
		},
	}
}
