package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/filestore"
	"github.com/roach88/loadout/internal/service"
)

// Init modes.
const (
	ModeShared = "shared"
	ModeLocal  = "local"
)

const (
	gitignoreFile          = ".gitignore"
	gitignoreHeader        = "# Loadout CLI"
	starterFragmentName    = "loadout-architect.md"
	defaultLoadoutName     = "default"
	defaultLoadoutDesc     = "Default loadout"
	starterFragmentContent = `## Loadout Architect

You are working in a project that uses Loadout to manage composable system prompts.

### Managing Loadouts

- ` + "`loadout`" + ` - Display current loadout status
- ` + "`loadout list`" + ` - List all available loadouts
- ` + "`loadout use <name>`" + ` - Switch to a different loadout
- ` + "`loadout create <name> --desc \"Description\"`" + ` - Create a new loadout
- ` + "`loadout add <fragment-path> --to <loadout>`" + ` - Add a fragment to a loadout
- ` + "`loadout remove <fragment-path> --from <loadout>`" + ` - Remove a fragment
- ` + "`loadout sync`" + ` - Re-compose and synchronize after fragment changes

### Fragment Guidelines

- Keep fragments focused on a single concern (coding style, project structure, etc.)
- Store project-specific fragments in ` + "`fragments/`" + `
- Store personal fragments in ` + "`~/.loadout/fragments/`" + `
- Run ` + "`loadout sync`" + ` after modifying any fragment content
`
)

// InitResult is the JSON payload of init.
type InitResult struct {
	Mode             string              `json:"mode"`
	GitignoreUpdated bool                `json:"gitignore_updated"`
	FragmentCreated  bool                `json:"fragment_created"`
	Fragment         string              `json:"fragment"`
	LoadoutCreated   bool                `json:"loadout_created"`
	Activation       *service.Activation `json:"activation,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up loadout in a project",
		Long: `Initialize loadout in the project: add ignore patterns to .gitignore,
create a starter fragment, and create and activate a "default" loadout when
the project has none.

In shared mode loadouts and fragments are committed so the team shares
them. In local mode they are ignored as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAppLedger(rootOpts, cmd, ledgerCreate, func(a *app, f *OutputFormatter) error {
				mode = strings.ToLower(strings.TrimSpace(mode))
				if mode != ModeShared && mode != ModeLocal {
					return domain.InvalidInput("mode", fmt.Sprintf("mode must be %q or %q", ModeShared, ModeLocal))
				}
				return runInit(cmd, a, f, mode)
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", ModeShared, "shared (commit loadouts) or local (ignore them)")

	return cmd
}

func runInit(cmd *cobra.Command, a *app, f *OutputFormatter, mode string) error {
	result := InitResult{Mode: mode}

	updated, err := setupGitignore(a, mode)
	if err != nil {
		return err
	}
	result.GitignoreUpdated = updated
	if updated {
		f.Printf("  Added loadout patterns to .gitignore (%s mode)", mode)
	} else {
		f.Printf("  .gitignore already configured for loadout (%s mode)", mode)
	}

	ref := path.Join(filepath.ToSlash(a.cfg.FragmentsDir), starterFragmentName)
	result.Fragment = ref
	created, err := createStarterFragment(a, ref)
	if err != nil {
		return err
	}
	result.FragmentCreated = created
	if created {
		f.Printf("  Created starter fragment at %s", ref)
	} else {
		f.Printf("  Starter fragment already exists at %s", ref)
	}

	loadouts, err := a.svc.List()
	if err != nil {
		return err
	}
	if len(loadouts) > 0 {
		if created {
			f.Printf("")
			f.Printf("Existing loadouts found. Add the new fragment with:")
			f.Printf("  loadout add %s --to <loadout-name>", ref)
		}
		if f.JSON() {
			return f.Success(result)
		}
		return nil
	}

	if _, err := a.svc.Create(defaultLoadoutName, defaultLoadoutDesc, []string{ref}); err != nil {
		return err
	}
	result.LoadoutCreated = true
	f.Printf("  Created '%s' loadout with starter fragment", defaultLoadoutName)

	act, err := a.svc.Activate(cmd.Context(), defaultLoadoutName, a.outputs)
	if err != nil {
		return err
	}
	result.Activation = &act
	if f.JSON() {
		return f.Success(result)
	}
	if err := reportActivation(a, f, act); err != nil {
		return err
	}

	f.Printf("")
	f.Printf("Loadout initialized successfully!")
	if mode == ModeLocal {
		f.Printf("Note: in local mode, loadout configurations are not shared with your team.")
	} else {
		f.Printf("Note: in shared mode, loadout configurations are committed and shared with your team.")
	}
	return nil
}

// gitignorePatterns returns the ignore patterns for mode. Generated
// outputs, the state file and the ledger are always machine-local.
func gitignorePatterns(a *app, mode string) []string {
	patterns := []string{gitignoreHeader, a.cfg.StateFile}
	for _, p := range a.outputs {
		patterns = append(patterns, displayPath(a.paths.Root, p))
	}
	if a.paths.Ledger != "" {
		patterns = append(patterns, displayPath(a.paths.Root, filepath.Dir(a.paths.Ledger))+"/")
	}
	if mode == ModeLocal {
		patterns = append(patterns,
			"",
			"# Loadout configuration (local-only)",
			strings.TrimSuffix(filepath.ToSlash(a.cfg.LoadoutsDir), "/")+"/",
			strings.TrimSuffix(filepath.ToSlash(a.cfg.FragmentsDir), "/")+"/",
		)
	}
	return patterns
}

// setupGitignore appends the patterns .gitignore is missing and reports
// whether it changed the file.
func setupGitignore(a *app, mode string) (bool, error) {
	p := filepath.Join(a.paths.Root, gitignoreFile)
	existing, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, domain.FileSystemError("read .gitignore", p, err)
	}
	content := string(existing)

	var missing []string
	for _, pattern := range gitignorePatterns(a, mode) {
		if pattern == "" || !hasLine(content, pattern) {
			missing = append(missing, pattern)
		}
	}
	if !hasPattern(missing) {
		return false, nil
	}

	var b strings.Builder
	if strings.TrimSpace(content) != "" {
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	for _, pattern := range missing {
		b.WriteString(pattern)
		b.WriteString("\n")
	}

	if err := (filestore.OutputFiles{}).WriteFile(p, []byte(b.String())); err != nil {
		return false, err
	}
	return true, nil
}

func hasLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// hasPattern reports whether missing holds anything besides blank lines
// and comments.
func hasPattern(missing []string) bool {
	for _, m := range missing {
		if m != "" && !strings.HasPrefix(m, "#") {
			return true
		}
	}
	return false
}

func createStarterFragment(a *app, ref string) (bool, error) {
	existing, err := a.svc.FindFragment(ref)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := a.svc.WriteFragment(ref, starterFragmentContent); err != nil {
		return false, err
	}
	return true, nil
}
