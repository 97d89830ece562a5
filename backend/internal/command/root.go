package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideaboard/ideaboard/shared/config"
)

// Version is overwritten at build time using -ldflags.
var Version = "dev"

const defaultConfigFolder = "backend/config"

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ideaboard-api",
		Short:         "IdeaBoard favorites and subscriptions API",
		Long:          "Serves the ajax toggle endpoint of the IdeaBoard forums and mints tokens for local testing.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("ideaboard-api version {{.Version}}\n")

	cmd.PersistentFlags().String("config_folder", defaultConfigFolder, "path to folder with configs")

	cmd.AddCommand(
		NewServeCmd(),
		NewTokenCmd(),
		NewNonceCmd(),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd(Version).Execute()
}

// loadConfig turns config.MustLoad panics into command errors.
func loadConfig(cmd *cobra.Command) (cfg *config.Config, err error) {
	folder, _ := cmd.Flags().GetString("config_folder")
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("load config from %s: %v", folder, r)
		}
	}()
	return config.MustLoad(folder), nil
}
