package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
)

// LoadoutValidation is the validation result of one loadout.
type LoadoutValidation struct {
	Name    string   `json:"name"`
	Missing []string `json:"missing_fragments,omitempty"`
	Problem string   `json:"problem,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Loadouts []LoadoutValidation `json:"loadouts"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [name]",
		Short: "Check that loadouts only reference existing fragments",
		Long: `Validate one loadout, or every loadout when no name is given, without
composing or writing anything. Exits with status 1 when a loadout
references missing fragments or is malformed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				return runValidate(a, f, args)
			})
		},
	}
}

func runValidate(a *app, f *OutputFormatter, args []string) error {
	var names []string
	if len(args) == 1 {
		names = args
	} else {
		loadouts, err := a.svc.List()
		if err != nil {
			return err
		}
		for _, l := range loadouts {
			names = append(names, l.Name)
		}
	}

	result := ValidationResult{Valid: true, Loadouts: make([]LoadoutValidation, 0, len(names))}
	for _, name := range names {
		v, err := validateOne(a, name, len(args) == 1)
		if err != nil {
			return err
		}
		if len(v.Missing) > 0 || v.Problem != "" {
			result.Valid = false
		}
		result.Loadouts = append(result.Loadouts, v)
	}

	if f.JSON() {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		printValidation(f, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %s", plural(countInvalid(result), "loadout")))
	}
	return nil
}

// validateOne checks a single loadout. When the loadout was named explicitly
// an unknown name is a command error; malformed records found while
// scanning all loadouts are reported as problems instead.
func validateOne(a *app, name string, explicit bool) (LoadoutValidation, error) {
	missing, err := a.svc.Validate(name)
	switch {
	case err == nil:
		return LoadoutValidation{Name: name, Missing: missing}, nil
	case domain.IsInvalidInput(err):
		return LoadoutValidation{Name: name, Problem: err.Error()}, nil
	case !explicit && domain.IsSerialization(err):
		return LoadoutValidation{Name: name, Problem: err.Error()}, nil
	default:
		return LoadoutValidation{}, err
	}
}

func printValidation(f *OutputFormatter, result ValidationResult) {
	if len(result.Loadouts) == 0 {
		f.Printf("No loadouts to validate")
		return
	}
	for _, v := range result.Loadouts {
		switch {
		case v.Problem != "":
			f.Printf("✗ %s: %s", v.Name, v.Problem)
		case len(v.Missing) > 0:
			f.Printf("✗ %s: missing %s", v.Name, plural(len(v.Missing), "fragment"))
			for _, ref := range v.Missing {
				f.Printf("    %s", ref)
			}
		default:
			f.Printf("✓ %s", v.Name)
		}
	}
}

func countInvalid(result ValidationResult) int {
	n := 0
	for _, v := range result.Loadouts {
		if len(v.Missing) > 0 || v.Problem != "" {
			n++
		}
	}
	return n
}
