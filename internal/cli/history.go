package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/store"
)

// DefaultHistoryLimit is the number of entries history shows by default.
const DefaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		limit   int
		loadout string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent loadout activations",
		Long: `Show the activation ledger, newest first. Every recorded use or sync
appends an entry with the loadout, the fingerprint written, and the
output files.

The ledger is disabled when the ledger setting is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAppLedger(rootOpts, cmd, ledgerExisting, func(a *app, f *OutputFormatter) error {
				if limit < 0 {
					return domain.InvalidInput("limit", "limit cannot be negative")
				}
				var (
					entries []store.Entry
					err     error
				)
				if loadout != "" {
					entries, err = a.svc.LoadoutHistory(cmd.Context(), loadout, limit)
				} else {
					entries, err = a.svc.History(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(entries)
				}

				if a.paths.Ledger == "" {
					f.Printf("History is disabled.")
					return nil
				}
				if len(entries) == 0 {
					f.Printf("No activations recorded yet.")
					return nil
				}
				for _, e := range entries {
					f.Printf("%4d  %s  %-20s %s  %s",
						e.Seq,
						e.RecordedAt.UTC().Format(time.DateTime),
						e.Loadout,
						e.Fingerprint,
						e.Outcome,
					)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "maximum entries to show (0 for all)")
	cmd.Flags().StringVarP(&loadout, "loadout", "l", "", "only show activations of this loadout")

	return cmd
}
