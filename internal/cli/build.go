package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
)

// buildCommand creates the build command that prints the genogram graph.
func (c *CLI) buildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build [family.json]",
		Short: "Build the genogram graph of a family",
		Long: `Build the genogram graph of a family: people, one label node per marriage
and the marriage and parent links between them.

Relationship problems (self-marriages, unknown partners, unresolved parents)
are reported as diagnostics and left out of the graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json, - for stdout)")

	return cmd
}

func (c *CLI) runBuild(input, output string) error {
	prog := newProgress(c.Logger)
	fam, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load family %s: %w", input, err)
	}

	g, err := builder.Build(fam, builder.Options{Logger: c.Logger})
	if err != nil {
		return fmt.Errorf("build %s: %w", input, err)
	}
	prog.done("built graph", "people", len(fam.People), "labels", g.LabelCount(), "links", len(g.Links))

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	path := outputPath(input, output, ".graph.json")
	if err := writeOutput(path, data); err != nil {
		return err
	}
	if path == "-" {
		return nil
	}

	printSuccess("Graph built")
	printFile(path)
	printDiagnostics(g.Diagnostics)
	return nil
}

// =============================================================================
// File Helpers
// =============================================================================

// outputPath returns output, or input with its extension replaced by suffix.
func outputPath(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
