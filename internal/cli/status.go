package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/engine"
	"github.com/roach88/loadout/internal/service"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the output files match the active loadout",
		Long: `Show the active loadout and check that the output files still match
its fragments.

Exits with status 1 when the output files are out of date, so scripts and
git hooks can run "loadout status || loadout sync".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				return showStatus(f, a, true)
			})
		},
	}
}

// runStatus backs the bare loadout command: it reports but never fails on drift.
func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	return withApp(opts, cmd, func(a *app, f *OutputFormatter) error {
		return showStatus(f, a, false)
	})
}

func showStatus(f *OutputFormatter, a *app, strict bool) error {
	st, err := a.svc.Status()
	if err != nil {
		return err
	}

	if f.JSON() {
		if err := f.Success(st); err != nil {
			return err
		}
	} else {
		printStatus(f, st)
	}

	if strict && !st.Synchronized {
		return NewExitError(ExitFailure, "output files are out of date: "+string(st.Reason))
	}
	return nil
}

func printStatus(f *OutputFormatter, st service.Status) {
	if st.Reason == engine.ReasonNoActive {
		f.Printf("No active loadout. Run 'loadout use <name>' to activate one.")
		return
	}

	if st.Loadout == nil {
		f.Printf("✗ Active loadout '%s' no longer exists. Run 'loadout use <name>' to pick another.", st.Active)
		return
	}

	l := *st.Loadout
	f.Printf("Active loadout: %s (%s)", l.Name, plural(len(l.Fragments), "fragment"))
	if l.Description != "" {
		f.Printf("  %s", l.Description)
	}
	printFragments(f, l)
	f.Printf("")

	switch st.Reason {
	case engine.ReasonMatch:
		f.Printf("✓ Output files are in sync (fingerprint %s)", st.Current)
	case engine.ReasonNeverWritten:
		f.Printf("✗ Output files have not been written yet. Run 'loadout sync'.")
	case engine.ReasonDrift:
		f.Printf("✗ Fragments changed since the last write. Run 'loadout sync'.")
	case service.ReasonFragmentsMissing:
		f.Printf("✗ Missing fragments:")
		for _, ref := range st.Missing {
			f.Printf("  - %s", ref)
		}
	default:
		f.Printf("✗ Output files are out of date (%s)", st.Reason)
	}
}
