package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
)

// importCommand creates the import command that converts legacy family
// files to the canonical schema.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Convert a family file to canonical JSON or YAML",
		Long: `Convert a family file to the canonical schema.

Accepted input: canonical JSON or YAML, and the legacy JSON shapes with
m/f or mom/dad parents, partner lists and wife/husband fields. The output
format follows the extension of --output (.yaml/.yml for YAML, otherwise
JSON); without --output the result is printed to stdout.

Person keys must be non-zero: 0 stands for an unknown mother or father.
Renumber files whose keys start at 0 before importing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(args[0], output, name)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&name, "name", "", "family name (default: keep the input's)")

	return cmd
}

func (c *CLI) runImport(input, output, name string) error {
	fam, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load family %s: %w", input, err)
	}
	if name != "" {
		fam.Name = name
	}
	if err := fam.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", input, err)
	}
	c.Logger.Debug("imported family", "people", len(fam.People), "marriages", len(fam.Marriages))

	if output == "" || output == "-" {
		return family.WriteJSON(os.Stdout, fam)
	}
	if err := family.WriteFile(output, fam); err != nil {
		return err
	}
	printSuccess("Imported %d people, %d marriages", len(fam.People), len(fam.Marriages))
	printFile(output)
	return nil
}
