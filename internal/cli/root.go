package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meetmind/internal/infrastructure/database"
	"github.com/johnquangdev/meetmind/pkg/config"
)

// Dependencies are shared by every command
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// OpenDB connects to the database; defaults to database.NewPostgresDB
	OpenDB func(cfg *config.Config) (*gorm.DB, error)
}

func (d *Dependencies) openDB() (*gorm.DB, error) {
	if d.OpenDB != nil {
		return d.OpenDB(d.Config)
	}
	return database.NewPostgresDB(d.Config)
}

func (d *Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// NewRootCmd builds the meetmindctl command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "meetmindctl",
		Short:         "Operate the MeetMind auto-join service",
		Long:          "Operator tooling for MeetMind: schema migrations, recording bot checks, duration previews and test notifications.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewMigrateCmd(deps))
	rootCmd.AddCommand(NewBotCmd(deps))
	rootCmd.AddCommand(NewDurationCmd(deps))
	rootCmd.AddCommand(NewNotifyCmd(deps))

	return rootCmd
}
