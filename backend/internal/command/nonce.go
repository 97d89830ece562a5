package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ideaboard/ideaboard/shared/domain"
	"github.com/ideaboard/ideaboard/shared/nonce"
)

// NewNonceCmd creates the nonce command.
func NewNonceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce",
		Short: "Mint an anti-replay token",
		Long: `Print an anti-replay token for a user.

Either pass --scope verbatim or --action and --id to get the toggle scope,
e.g. --action favorite --id 5 signs "toggle-favorite_5".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := nonceScope(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			verifier, err := nonce.New(cfg.Private.NonceKey, cfg.Public.NonceLifetime)
			if err != nil {
				return err
			}

			userId, _ := cmd.Flags().GetInt64("user-id")
			fmt.Fprintln(cmd.OutOrStdout(), verifier.Create(userId, scope))
			return nil
		},
	}

	cmd.Flags().Int64("user-id", 0, "user the token is bound to (0 for anonymous)")
	cmd.Flags().String("scope", "", "scope to sign")
	cmd.Flags().String("action", "", "favorite, subscription or forum_subscription")
	cmd.Flags().Int64("id", 0, "thread or forum id")
	cmd.MarkFlagsMutuallyExclusive("scope", "action")

	return cmd
}

func nonceScope(cmd *cobra.Command) (domain.Scope, error) {
	if scope, _ := cmd.Flags().GetString("scope"); scope != "" {
		return scope, nil
	}

	action, _ := cmd.Flags().GetString("action")
	kind := domain.RelationKind(action)
	if !kind.Valid() {
		return "", fmt.Errorf("either --scope or a valid --action is required, got %q", action)
	}
	id, _ := cmd.Flags().GetInt64("id")
	if id <= 0 {
		return "", fmt.Errorf("--id must be positive")
	}
	return domain.ToggleScope(kind, id), nil
}
