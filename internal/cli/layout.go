package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/pipeline"
)

// layoutCommand creates the layout command for computing genogram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [family.json]",
		Short: "Compute the layout of a family",
		Long: `Compute the layout of a family.

The output is the same layout JSON as 'render -f json': every person and
marriage label with its box and generation, and the points of every link.

Results are cached; see 'genogram cache'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	fam, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load family %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, "Computing layout...")

	res, cacheHit, err := runner.LayoutWithCacheInfo(ctx, fam, opts)
	if err != nil {
		spin.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	path := outputPath(input, output, ".layout.json")
	if err := writeOutput(path, data); err != nil {
		return err
	}
	if path == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(res, cacheHit)
	printDiagnostics(res.Diagnostics)
	printNewline()
	printNextStep("Render", "genogram render "+input)
	return nil
}
