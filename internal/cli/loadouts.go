package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/loadout/internal/domain"
)

// LoadoutSummary is one row of the list command.
type LoadoutSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fragments   []string `json:"fragments"`
	Active      bool     `json:"active"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all loadouts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, runList)
		},
	}
}

func runList(a *app, f *OutputFormatter) error {
	loadouts, err := a.svc.List()
	if err != nil {
		return err
	}
	active, err := a.svc.ActiveName()
	if err != nil {
		return err
	}

	rows := make([]LoadoutSummary, 0, len(loadouts))
	for _, l := range loadouts {
		rows = append(rows, LoadoutSummary{
			Name:        l.Name,
			Description: l.Description,
			Fragments:   l.Fragments,
			Active:      l.Name == active,
		})
	}
	if f.JSON() {
		return f.Success(rows)
	}

	if len(rows) == 0 {
		f.Printf("No loadouts found. Create one with: loadout create <name>")
		return nil
	}
	for _, r := range rows {
		marker := " "
		if r.Active {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (%s)", marker, r.Name, plural(len(r.Fragments), "fragment"))
		if r.Description != "" {
			line += " - " + r.Description
		}
		f.Printf("%s", line)
	}
	return nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a loadout and its fragments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				return runShow(a, f, args[0])
			})
		},
	}
}

func runShow(a *app, f *OutputFormatter, name string) error {
	l, err := a.svc.Get(name)
	if err != nil {
		return err
	}
	if f.JSON() {
		return f.Success(l)
	}

	f.Printf("%s", l.Name)
	if l.Description != "" {
		f.Printf("  %s", l.Description)
	}
	f.Printf("  version %s, updated %s", l.Metadata.Version, l.Metadata.UpdatedAt.UTC().Format("2006-01-02 15:04:05"))
	if len(l.Metadata.Tags) > 0 {
		f.Printf("  tags: %s", strings.Join(l.Metadata.Tags, ", "))
	}
	printFragments(f, l)
	return nil
}

func printFragments(f *OutputFormatter, l domain.Loadout) {
	if len(l.Fragments) == 0 {
		f.Printf("  (no fragments)")
		return
	}
	for i, ref := range l.Fragments {
		f.Printf("  %d. %s", i+1, ref)
	}
}

type createOptions struct {
	description string
	fragments   []string
	clone       string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new loadout",
		Long: `Create a new loadout from a list of fragment references.

With --clone the new loadout starts with the fragments of an existing one;
fragments given with -f are appended after them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				return runCreate(a, f, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.description, "desc", "d", "", "description")
	cmd.Flags().StringArrayVarP(&opts.fragments, "fragment", "f", nil, "fragment reference (repeatable)")
	cmd.Flags().StringVar(&opts.clone, "clone", "", "copy fragments from an existing loadout")

	return cmd
}

func runCreate(a *app, f *OutputFormatter, name string, opts *createOptions) error {
	var (
		l   domain.Loadout
		err error
	)
	if opts.clone != "" {
		l, err = a.svc.Clone(name, opts.clone, opts.description, opts.fragments)
	} else {
		l, err = a.svc.Create(name, opts.description, opts.fragments)
	}
	if err != nil {
		return err
	}
	if f.JSON() {
		return f.Success(l)
	}

	f.Printf("✓ Created loadout '%s' with %s", l.Name, plural(len(l.Fragments), "fragment"))
	return nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a loadout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app, f *OutputFormatter) error {
				return runDelete(a, f, args[0])
			})
		},
	}
}

func runDelete(a *app, f *OutputFormatter, name string) error {
	if err := a.svc.Delete(name); err != nil {
		return err
	}
	if f.JSON() {
		return f.Success(map[string]string{"deleted": name})
	}

	f.Printf("✓ Deleted loadout '%s'", name)
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
