package cache

// ScopedKeyer namespaces the keys of another Keyer so that deployments
// sharing one backend never read each other's entries.
type ScopedKeyer struct {
	Keyer
	Namespace string
}

// NewScopedKeyer scopes inner, or a [DefaultKeyer] when inner is nil, to
// namespace. An empty namespace returns inner unchanged.
func NewScopedKeyer(inner Keyer, namespace string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if namespace == "" {
		return inner
	}
	return ScopedKeyer{Keyer: inner, Namespace: namespace}
}

func (k ScopedKeyer) LayoutKey(familyHash string, opts LayoutKeyOpts) string {
	return k.scope(k.Keyer.LayoutKey(familyHash, opts))
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope(k.Keyer.ArtifactKey(layoutHash, opts))
}

func (k ScopedKeyer) scope(key string) string { return k.Namespace + ":" + key }
