package cache

// ScopedKeyer prefixes every key of an inner Keyer, isolating tenants that
// share one backend:
//
//	tenant := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) AnalysisKey(imageHash string, version int) string {
	return k.prefix + k.inner.AnalysisKey(imageHash, version)
}

func (k *ScopedKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(inputHash, opts)
}

func (k *ScopedKeyer) VariationKey(templateID, styleHash string, count int) string {
	return k.prefix + k.inner.VariationKey(templateID, styleHash, count)
}
