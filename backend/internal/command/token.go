package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideaboard/ideaboard/shared/domain"
	"github.com/ideaboard/ideaboard/shared/jwt"
)

// NewTokenCmd creates the token command.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token",
		Long:  "Print a signed session token for a user, for use as the accessToken cookie or a Bearer header.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			userId, _ := cmd.Flags().GetInt64("user-id")
			if userId <= 0 {
				return fmt.Errorf("--user-id must be positive")
			}
			admin, _ := cmd.Flags().GetBool("admin")
			disabled, _ := cmd.Flags().GetBool("disabled")

			user := domain.User{Id: userId, Admin: admin, Disabled: disabled, CreatedAt: time.Now()}
			token, err := jwt.New(cfg.JwtKey(), cfg.JwtTTL()).NewToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64("user-id", 0, "user id to put in the token")
	cmd.Flags().Bool("admin", false, "mint an admin session")
	cmd.Flags().Bool("disabled", false, "mint a session for a disabled account")

	return cmd
}
