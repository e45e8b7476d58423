package layered

import (
	errs "github.com/matzehuels/genogram/pkg/errors"
)

// Default layout parameters.
const (
	DefaultDirection         = 90
	DefaultLayerSpacing      = 25
	DefaultColumnSpacing     = 25
	DefaultIterations        = 4
	DefaultBalanceIterations = 4
)

// Options configures [Layout].
type Options struct {
	// Direction in which layers grow, in degrees: 90 is downward (the
	// default), 270 upward, 0 rightward and 180 leftward.
	Direction float64

	// LayerSpacing is the gap between consecutive layers.
	LayerSpacing float64

	// ColumnSpacing is the minimum gap between neighboring vertices in a layer.
	ColumnSpacing float64

	// Iterations bounds the number of crossing reduction sweeps.
	Iterations int

	// BalanceIterations is the number of down/up passes that center vertices
	// on their neighbors.
	BalanceIterations int

	// AdjustLayers, if set, is called after layering and before ordering.
	// It may change vertex sizes and focus points but not the structure.
	AdjustLayers func(n *Network, horizontal bool)
}

// DefaultOptions returns options with the default parameters.
func DefaultOptions() Options {
	return Options{
		Direction:         DefaultDirection,
		LayerSpacing:      DefaultLayerSpacing,
		ColumnSpacing:     DefaultColumnSpacing,
		Iterations:        DefaultIterations,
		BalanceIterations: DefaultBalanceIterations,
	}
}

// Horizontal reports whether layers grow along the x axis.
func (o Options) Horizontal() bool {
	return o.Direction == 0 || o.Direction == 180
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.Direction {
	case 0, 90, 180, 270:
	default:
		return errs.New(errs.ErrCodeInvalidOptions, "direction must be 0, 90, 180 or 270, got %g", o.Direction)
	}
	if o.LayerSpacing < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "layer spacing must be >= 0, got %g", o.LayerSpacing)
	}
	if o.ColumnSpacing < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "column spacing must be >= 0, got %g", o.ColumnSpacing)
	}
	if o.Iterations < 0 || o.BalanceIterations < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "iterations must be >= 0")
	}
	return nil
}

// Report summarizes a layout run.
type Report struct {
	Layers    int   // number of layers holding arranged vertices
	Crossings int   // edge crossings in the final order
	Cycles    []int // IDs of edges removed to break cycles
	Conflicts []int // IDs of edges removed because both ends share an anchor
}

// Layout runs the layered layout on n: layer assignment, the AdjustLayers
// hook, ordering with crossing reduction, and coordinate assignment.
//
// Any state from a previous Layout call is discarded first, so laying out
// an unchanged network again produces the same result.
func Layout(n *Network, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n.reset()

	cycles, conflicts := assignLayers(n)
	if opts.AdjustLayers != nil {
		opts.AdjustLayers(n, opts.Horizontal())
	}
	n.arrange()
	crossings := n.reduceCrossings(opts.Iterations)
	n.assignCoordinates(opts)

	return &Report{
		Layers:    len(n.rows),
		Crossings: crossings,
		Cycles:    cycles,
		Conflicts: conflicts,
	}, nil
}
