// Package pipeline runs the family → layout → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Layout: build the genogram graph and position it. Results are cached
//     under the hash of the canonical family JSON plus the layout options.
//  2. Render: produce the requested formats (svg, png, dot, json) from a
//     layout. Formats render concurrently and are cached per format.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, fam, pipeline.Options{Formats: []string{"svg"}})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genogram/pkg/cache"
	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It is the JSON body of the server's
// layout and render requests.
type Options struct {
	// Layout options; zero values take the layout defaults.
	Direction         *float64 `json:"direction,omitempty"`
	LayerSpacing      float64  `json:"layer_spacing,omitempty"`
	ColumnSpacing     float64  `json:"column_spacing,omitempty"`
	SpouseSpacing     float64  `json:"spouse_spacing,omitempty"`
	Iterations        int      `json:"iterations,omitempty"`
	BalanceIterations int      `json:"balance_iterations,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Focus    int      `json:"focus,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// FromLayoutOptions copies layout options into pipeline options.
func FromLayoutOptions(lo layout.Options) Options {
	dir := lo.Direction
	return Options{
		Direction:         &dir,
		LayerSpacing:      lo.LayerSpacing,
		ColumnSpacing:     lo.ColumnSpacing,
		SpouseSpacing:     lo.SpouseSpacing,
		Iterations:        lo.Iterations,
		BalanceIterations: lo.BalanceIterations,
	}
}

// LayoutOptions returns the layout options with defaults applied.
func (o *Options) LayoutOptions() layout.Options {
	lo := layout.DefaultOptions()
	if o.Direction != nil {
		lo.Direction = *o.Direction
	}
	if o.LayerSpacing != 0 {
		lo.LayerSpacing = o.LayerSpacing
	}
	if o.ColumnSpacing != 0 {
		lo.ColumnSpacing = o.ColumnSpacing
	}
	if o.SpouseSpacing != 0 {
		lo.SpouseSpacing = o.SpouseSpacing
	}
	lo.Iterations = o.Iterations
	lo.BalanceIterations = o.BalanceIterations
	lo.Logger = o.Logger
	return lo
}

// SetDefaults fills in the formats. A nil Logger is left for the
// [Runner] to replace with its own.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// Validate applies defaults and checks layout options and formats.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	lo := o.LayoutOptions()
	return cache.LayoutKeyOpts{
		Direction:         lo.Direction,
		LayerSpacing:      lo.LayerSpacing,
		ColumnSpacing:     lo.ColumnSpacing,
		SpouseSpacing:     lo.SpouseSpacing,
		Iterations:        lo.Iterations,
		BalanceIterations: lo.BalanceIterations,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Focus: o.Focus, Detailed: o.Detailed}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// FamilyHash is the content hash of the canonical family JSON.
	FamilyHash string

	Layout    *layout.Result
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	People     int
	Nodes      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
