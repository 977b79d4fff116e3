package providers

import "vehlog/internal/structures"

// instrumentedCache reports every view lookup as a hit or a miss.
type instrumentedCache struct {
	CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	view, ok := c.CacheProviderInterface.Get(key)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return view, true
}

// NewInstrumentedCacheProvider builds the view cache and counts its hits and
// misses. A disabled cache stays bare and reports nothing.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	views := NewCacheProvider(conf, logger)
	if _, disabled := views.(*noopCache); disabled {
		return views
	}
	return &instrumentedCache{CacheProviderInterface: views, metrics: metrics}
}
