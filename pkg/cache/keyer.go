package cache

// LayoutKeyOpts holds the layout options that change a layout result.
type LayoutKeyOpts struct {
	Direction         float64 `json:"direction"`
	LayerSpacing      float64 `json:"layer_spacing"`
	ColumnSpacing     float64 `json:"column_spacing"`
	SpouseSpacing     float64 `json:"spouse_spacing"`
	Iterations        int     `json:"iterations,omitempty"`
	BalanceIterations int     `json:"balance_iterations,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Focus    int    `json:"focus,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of the layout of the family with the given
	// content hash.
	LayoutKey(familyHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs of each key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(familyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", familyHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
