package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/service"
)

// NewUseCommand creates the use command.
func NewUseCommand(rootOpts *RootOptions) *cobra.Command {
	var stdOut bool

	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Switch to a loadout and write its output files",
		Long: `Compose a loadout, write the output files, and make it the active
loadout. Files are only rewritten when the composed content changed.

With --std-out the composition is printed and nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAppLedger(rootOpts, cmd, recordingLedger(stdOut), func(a *app, f *OutputFormatter) error {
				if stdOut {
					comp, err := a.svc.Preview(args[0])
					if err != nil {
						return err
					}
					return printComposition(f, comp)
				}
				act, err := a.svc.Activate(cmd.Context(), args[0], a.outputs)
				if err != nil {
					return err
				}
				return reportActivation(a, f, act)
			})
		},
	}

	cmd.Flags().BoolVar(&stdOut, "std-out", false, "print the composition without writing files")

	return cmd
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var stdOut bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Re-compose the active loadout after fragment changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAppLedger(rootOpts, cmd, recordingLedger(stdOut), func(a *app, f *OutputFormatter) error {
				if stdOut {
					comp, err := a.svc.PreviewActive()
					if err != nil {
						return err
					}
					return printComposition(f, comp)
				}
				act, err := a.svc.Sync(cmd.Context(), a.outputs)
				if err != nil {
					return err
				}
				return reportActivation(a, f, act)
			})
		},
	}

	cmd.Flags().BoolVar(&stdOut, "std-out", false, "print the composition without writing files")

	return cmd
}

func printComposition(f *OutputFormatter, comp domain.Composition) error {
	if f.JSON() {
		return f.Success(comp)
	}
	f.Printf("%s", comp.Content)
	return nil
}

// ActivationResult is the JSON payload of use and sync.
type ActivationResult struct {
	Loadout     string   `json:"loadout"`
	Fingerprint string   `json:"fingerprint"`
	Outcome     string   `json:"outcome"`
	Recorded    bool     `json:"recorded"`
	Previous    string   `json:"previous,omitempty"`
	Paths       []string `json:"paths"`
	Characters  int      `json:"characters"`
}

func reportActivation(a *app, f *OutputFormatter, act service.Activation) error {
	comp := act.Composition
	if f.JSON() {
		return f.Success(ActivationResult{
			Loadout:     comp.LoadoutName,
			Fingerprint: comp.Fingerprint(),
			Outcome:     string(act.Outcome),
			Recorded:    act.Recorded,
			Previous:    act.Previous,
			Paths:       act.Paths,
			Characters:  comp.Metadata.TotalCharacters,
		})
	}

	if act.Outcome == domain.OutcomeUpToDate {
		if act.Previous != "" && act.Previous != comp.LoadoutName {
			f.Printf("✓ Switched to loadout '%s'; output files already match", comp.LoadoutName)
			return nil
		}
		f.Printf("Loadout '%s' is active and up to date. Nothing to do.", comp.LoadoutName)
		return nil
	}

	f.Printf("✓ Loadout '%s' active; generated files (%d characters):", comp.LoadoutName, comp.Metadata.TotalCharacters)
	for _, p := range act.Paths {
		f.Printf("  • %s", displayPath(a.paths.Root, p))
	}
	return nil
}

// displayPath shows p relative to root when it lies inside it.
func displayPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
