package cli

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/chopbill/internal/auth"
	"github.com/mmynk/chopbill/internal/service"
)

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"status":   "migrated",
				"database": a.cfg.Database.Path,
			})
		},
	}
}

func (a *app) balanceCommand() *cobra.Command {
	var groupID, userID string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a user's net balance in a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			balance, err := l.NetBalance(cmd.Context(), groupID, userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				GroupID string          `json:"group_id"`
				UserID  string          `json:"user_id"`
				Balance decimal.Decimal `json:"balance"`
			}{groupID, userID, balance})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.MarkFlagRequired("group")
	cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) pairwiseCommand() *cobra.Command {
	var groupID, userID, otherID string

	cmd := &cobra.Command{
		Use:   "pairwise",
		Short: "Print what --other owes --user in a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			pw, err := l.PairwiseBalance(cmd.Context(), groupID, userID, otherID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				GroupID     string          `json:"group_id"`
				UserID      string          `json:"user_id"`
				OtherUserID string          `json:"other_user_id"`
				Signed      decimal.Decimal `json:"signed"`
				Amount      decimal.Decimal `json:"amount"`
				Direction   string          `json:"direction"`
			}{groupID, userID, otherID, pw.Signed, pw.Amount, string(pw.Direction)})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().StringVar(&userID, "user", "", "User whose perspective is used")
	cmd.Flags().StringVar(&otherID, "other", "", "Counterparty user ID")
	cmd.MarkFlagRequired("group")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("other")
	return cmd
}

func (a *app) dashboardCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print a user's cross-group dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			dashboard, err := l.Dashboard(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), service.ToDashboard(dashboard))
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) tokenCommand() *cobra.Command {
	var userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for an existing user",
		Long:  `Mint a bearer token signed with auth.jwt_secret. Intended for development and support.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireJWTSecret(); err != nil {
				return err
			}

			l, store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			if _, err := l.GetUser(cmd.Context(), userID); err != nil {
				return err
			}

			if ttl == 0 {
				ttl = a.cfg.Auth.TokenTTL.Duration
			}
			token, err := auth.NewJWTManager(a.cfg.Auth.JWTSecret, ttl).Generate(userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"user_id":    userID,
				"token":      token,
				"expires_in": ttl.String(),
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default auth.token_ttl)")
	cmd.MarkFlagRequired("user")
	return cmd
}
