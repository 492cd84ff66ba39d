// Package cli implements ledgerctl, the operator command line for a chopbill
// database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/chopbill/internal/config"
	"github.com/mmynk/chopbill/internal/ledger"
	"github.com/mmynk/chopbill/internal/storage/sqlite"
	"github.com/mmynk/chopbill/pkg/logging"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand builds the ledgerctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect and maintain a chopbill ledger database",
		Long: `ledgerctl works directly on the ledger database configured for the server.
It can run migrations, print balances and dashboards as JSON, and mint
development tokens.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Setup(cfg.Log.Level, "text")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a TOML config file")

	root.AddCommand(
		a.migrateCommand(),
		a.balanceCommand(),
		a.pairwiseCommand(),
		a.dashboardCommand(),
		a.tokenCommand(),
	)
	return root
}

// openLedger opens the configured store and wraps it in a Ledger. The caller closes
// the store.
func (a *app) openLedger() (*ledger.Ledger, *sqlite.SQLiteStore, error) {
	store, err := sqlite.New(a.cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	l := ledger.New(store,
		ledger.WithDashboardConcurrency(a.cfg.Ledger.DashboardConcurrency),
		ledger.WithRecentExpenseLimit(a.cfg.Ledger.RecentExpenseLimit),
	)
	return l, store, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
