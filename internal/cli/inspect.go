package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
)

// inspectCommand creates the inspect command, an interactive browser of the
// people in a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [family.json]",
		Short: "Browse the people of a family layout",
		Long: `Lay out a family and browse its people interactively: generation,
position, spouses, parents and children of each person. Press / to filter
by name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			fam, err := family.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load family %s: %w", args[0], err)
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Layout(ctx, fam, opts)
			if err != nil {
				return fmt.Errorf("compute layout: %w", err)
			}

			title := fam.Name
			if title == "" {
				title = args[0]
			}
			_, err = tea.NewProgram(NewInspectModel(title, res), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
