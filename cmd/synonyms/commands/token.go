package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/synonym-backend/internal/auth"
	"github.com/heartmarshall/synonym-backend/internal/domain"
)

func (c *cli) tokenCmd() *cobra.Command {
	var owner, label string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.RequireAuth(); err != nil {
				return err
			}
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return domain.NewValidationError("owner", "must be a UUID")
			}

			tokens := auth.NewJWTManager(c.cfg.Auth.JWTSecret, c.cfg.Auth.JWTIssuer, c.cfg.Auth.AccessTokenTTL)
			token, expires, err := tokens.Issue(ownerID, label)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id carried by the token")
	cmd.Flags().StringVar(&label, "label", "", "free-form label stored in the token")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
