package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/pipeline"
)

// renderOpts holds the render-only flags.
type renderOpts struct {
	output   string // output file (single format) or base path
	formats  []string
	focus    int  // person to highlight
	detailed bool // key and generation under each name
	refresh  bool // recompute even when cached
}

// renderCommand creates the render command for drawing genograms.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		flags      layoutFlags
		ro         renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [family.json]",
		Short: "Render a family as a genogram",
		Long: `Render a family as a genogram.

Formats: svg (default), png, dot (Graphviz source with pinned positions) and
json (the layout). Several formats can be given comma-separated; each is
written next to the input or to --output with the format as extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ro.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(ro.formats); err != nil {
				return err
			}
			opts, err := c.layoutOptions(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = ro.formats
			opts.Focus = ro.focus
			opts.Detailed = ro.detailed
			opts.Refresh = ro.refresh
			return c.runRender(cmd.Context(), args[0], opts, &ro, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().IntVar(&ro.focus, "focus", 0, "key of the person to highlight")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show key and generation under each name")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute even when cached")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro *renderOpts, noCache bool) error {
	fam, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load family %s: %w", input, err)
	}
	if opts.Focus != 0 && !hasPerson(fam, opts.Focus) {
		printWarning("focus %d is not a person of %s", opts.Focus, input)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))

	res, err := runner.Execute(ctx, fam, opts)
	if err != nil {
		spin.fail("Render failed")
		return err
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Rendered %s", input)
	base := basePath(ro.output, input)
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && ro.output != "" {
			path = ro.output
		}
		if path == input {
			path = base + ".layout." + format
		}
		if err := writeOutput(path, res.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(res.Layout, res.CacheInfo.LayoutHit)
	printDiagnostics(res.Layout.Diagnostics)
	return nil
}

// basePath derives the base output path. Without output the input's
// extension is stripped; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func hasPerson(fam *family.Family, key int) bool {
	for _, p := range fam.People {
		if p.Key == key {
			return true
		}
	}
	return false
}
