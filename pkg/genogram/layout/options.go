package layout

import (
	"math"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/layered"
)

// Layout defaults.
const (
	DefaultDirection     = 90
	DefaultLayerSpacing  = 30
	DefaultColumnSpacing = 10
	DefaultSpouseSpacing = 30

	// Person boxes hold the name in at most MaxTextWidth with TextMargin on
	// every side.
	MaxTextWidth = 80
	TextMargin   = 10
	CharWidth    = 7
	LineHeight   = 16
	MinNodeWidth = 40

	// LabelSize is the edge length of a marriage label node.
	LabelSize = 1
)

// SizeFunc returns the box size of a person.
type SizeFunc func(p *family.Person) (width, height float64)

// Options configures [Compute].
type Options struct {
	// Direction in which generations grow: 90 down (default), 270 up,
	// 0 right, 180 left.
	Direction float64 `json:"direction"`

	// LayerSpacing is the gap between generations.
	LayerSpacing float64 `json:"layer_spacing"`

	// ColumnSpacing is the minimum gap between neighbors in a generation.
	ColumnSpacing float64 `json:"column_spacing"`

	// SpouseSpacing is the gap between the two spouses of a couple.
	SpouseSpacing float64 `json:"spouse_spacing"`

	// Iterations and BalanceIterations tune the layered engine; zero values
	// use its defaults.
	Iterations        int `json:"iterations,omitempty"`
	BalanceIterations int `json:"balance_iterations,omitempty"`

	// NodeSize overrides the default person box size.
	NodeSize SizeFunc `json:"-"`

	// Logger receives diagnostics as warnings. Nil discards them.
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns the default layout options.
func DefaultOptions() Options {
	return Options{
		Direction:     DefaultDirection,
		LayerSpacing:  DefaultLayerSpacing,
		ColumnSpacing: DefaultColumnSpacing,
		SpouseSpacing: DefaultSpouseSpacing,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.SpouseSpacing < 0 {
		return errs.New(errs.ErrCodeInvalidOptions, "spouse spacing must be >= 0, got %g", o.SpouseSpacing)
	}
	return o.engine().Validate()
}

// Horizontal reports whether generations grow along the x axis.
func (o Options) Horizontal() bool { return o.engine().Horizontal() }

func (o Options) engine() layered.Options {
	e := layered.DefaultOptions()
	e.Direction = o.Direction
	e.LayerSpacing = o.LayerSpacing
	e.ColumnSpacing = o.ColumnSpacing
	if o.Iterations != 0 {
		e.Iterations = o.Iterations
	}
	if o.BalanceIterations != 0 {
		e.BalanceIterations = o.BalanceIterations
	}
	return e
}

func (o Options) size(p *family.Person) (float64, float64) {
	if o.NodeSize != nil {
		return o.NodeSize(p)
	}
	return DefaultNodeSize(p)
}

// DefaultNodeSize sizes a person box from the display name: the text is
// CharWidth per character, wrapped at MaxTextWidth, with TextMargin around.
func DefaultNodeSize(p *family.Person) (width, height float64) {
	text := float64(utf8.RuneCountInString(p.DisplayName()) * CharWidth)
	lines := math.Max(1, math.Ceil(text/MaxTextWidth))
	width = math.Max(MinNodeWidth, math.Min(text, MaxTextWidth)+2*TextMargin)
	height = lines*LineHeight + 2*TextMargin
	return width, height
}
