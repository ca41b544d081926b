package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/attarhouse/attarhouse-api/internal/presentation/http/middleware"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var knownRoles = []string{middleware.RoleAdmin, middleware.RoleStaff, middleware.RoleAudit}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		userID string
		email  string
		roles  []string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for calling the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if email == "" {
				return errors.New("--email is required")
			}
			for _, r := range roles {
				if !slices.Contains(knownRoles, r) {
					return fmt.Errorf("unknown role %q (valid: %v)", r, knownRoles)
				}
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
			}

			token, err := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours).GenerateAccessToken(id, email, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id to put in the token (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringSliceVar(&roles, "role", []string{middleware.RoleStaff}, "roles to grant (admin, staff, auditor)")
	return cmd
}
