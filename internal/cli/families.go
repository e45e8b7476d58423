package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/store"
)

// familiesCommand creates the families command for the family store.
func (c *CLI) familiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "families",
		Aliases: []string{"family"},
		Short:   "Manage stored families",
		Long: `Manage the family store shared with 'genogram serve'.

The store is SQLite by default; set [store] in the config file or
GENOGRAM_STORE_BACKEND=mongo to use MongoDB.`,
	}

	cmd.AddCommand(c.familiesListCommand())
	cmd.AddCommand(c.familiesGetCommand())
	cmd.AddCommand(c.familiesPutCommand())
	cmd.AddCommand(c.familiesDeleteCommand())

	return cmd
}

func (c *CLI) familiesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No families stored")
				return nil
			}
			fmt.Println(familiesTable(list))
			return nil
		},
	}
}

func (c *CLI) familiesGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Print or export a stored family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return family.WriteJSON(os.Stdout, rec.Family)
			}
			if err := family.WriteFile(output, rec.Family); err != nil {
				return err
			}
			printSuccess("Exported %s", rec.ID)
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .yaml for YAML (default: stdout)")
	return cmd
}

func (c *CLI) familiesPutCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Store a family file",
		Long: `Store a family file under --id, replacing any family with that ID.
Without --id a new ID is generated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := family.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load family %s: %w", args[0], err)
			}

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			stored, err := st.Put(cmd.Context(), id, fam)
			if err != nil {
				return err
			}
			printSuccess("Stored %s", styleValue.Render(stored))
			printDetail("%d people, %d marriages", len(fam.People), len(fam.Marriages))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "family ID (default: generated)")
	return cmd
}

func (c *CLI) familiesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a stored family",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// familiesTable renders family summaries as a table.
func familiesTable(list []store.Summary) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{s.ID, s.Name, strconv.Itoa(s.People), formatRelativeTime(s.UpdatedAt, time.Now())}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "People", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return styleValue
			default:
				return styleDim
			}
		})
	return t.Render()
}

// formatRelativeTime describes t relative to now.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
