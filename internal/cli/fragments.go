package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
)

type editOptions struct {
	loadout string
	after   string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "add <fragment> --to <loadout>",
		Short: "Add a fragment to a loadout",
		Long: `Add a fragment reference to a loadout.

The fragment is appended, or inserted directly after --after when that
reference is part of the loadout. Run sync afterwards to regenerate the
output files of the active loadout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				l, err := a.svc.AddFragment(opts.loadout, args[0], opts.after)
				if err != nil {
					return err
				}
				return reportEdit(f, l, fmt.Sprintf("Added '%s' to loadout '%s'", ref(args[0]), l.Name), args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.loadout, "to", "", "loadout to add the fragment to")
	cmd.Flags().StringVar(&opts.after, "after", "", "insert after this fragment")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "remove <fragment> --from <loadout>",
		Short: "Remove a fragment from a loadout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				l, err := a.svc.RemoveFragment(opts.loadout, args[0])
				if err != nil {
					return err
				}
				return reportEdit(f, l, fmt.Sprintf("Removed '%s' from loadout '%s'", ref(args[0]), l.Name), "")
			})
		},
	}

	cmd.Flags().StringVar(&opts.loadout, "from", "", "loadout to remove the fragment from")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "move <fragment> --in <loadout>",
		Short: "Reorder a fragment within a loadout",
		Long: `Move a fragment directly after --after, or to the end of the loadout
when --after is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				l, err := a.svc.MoveFragment(opts.loadout, args[0], opts.after)
				if err != nil {
					return err
				}
				return reportEdit(f, l, fmt.Sprintf("Moved '%s' in loadout '%s'", ref(args[0]), l.Name), args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.loadout, "in", "", "loadout to reorder")
	cmd.Flags().StringVar(&opts.after, "after", "", "place after this fragment")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

// reportEdit prints the loadout after a fragment edit, marking highlight.
func reportEdit(f *OutputFormatter, l domain.Loadout, message, highlight string) error {
	if f.JSON() {
		return f.Success(l)
	}

	f.Printf("✓ %s", message)
	f.Printf("Loadout now has %s:", plural(len(l.Fragments), "fragment"))
	if len(l.Fragments) == 0 {
		f.Printf("  (no fragments)")
		return nil
	}
	highlight = ref(highlight)
	for i, r := range l.Fragments {
		if highlight != "" && r == highlight {
			f.Printf("  %d. %s  <-", i+1, r)
			continue
		}
		f.Printf("  %d. %s", i+1, r)
	}
	return nil
}

func ref(r string) string {
	return domain.NormalizeReference(r)
}

// FragmentInfo is one row of the fragments command.
type FragmentInfo struct {
	Ref      string `json:"ref"`
	Name     string `json:"name"`
	Modified string `json:"modified,omitempty"`
}

// NewFragmentsCommand creates the fragments command.
func NewFragmentsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fragments",
		Short: "List available fragments",
		Long: `List the markdown fragments found in the project fragment directory
and the global fragment directory. Global fragments are shown with a "~/"
reference.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, runFragments)
		},
	}
}

func runFragments(a *app, f *OutputFormatter) error {
	frags, err := a.svc.Fragments()
	if err != nil {
		return err
	}

	rows := make([]FragmentInfo, 0, len(frags))
	for _, fr := range frags {
		row := FragmentInfo{Ref: fr.Ref, Name: fr.Name}
		if !fr.UpdatedAt.IsZero() {
			row.Modified = fr.UpdatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	if f.JSON() {
		return f.Success(rows)
	}

	if len(rows) == 0 {
		f.Printf("No fragments found in %s", a.paths.FragmentsDir)
		return nil
	}
	for _, r := range rows {
		f.Printf("%s", r.Ref)
	}
	return nil
}
