package providers

import (
	"strconv"
	"unsafe"
	"vehlog/internal/structures"

	"github.com/coocood/freecache"
)

const bytesPerMB = 1024 * 1024

// CacheProviderInterface holds rendered JSON views of the working set.
type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	EntryCount() int64
}

// ViewKey scopes a view to one working set version. Any mutation bumps the
// version, so entries of older versions are never read again and age out
// through the TTL.
func ViewKey(view string, version uint64) string {
	return view + "@" + strconv.FormatUint(version, 10)
}

type CacheProvider struct {
	views *freecache.Cache
	ttl   int
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "View cache disabled")
		return &noopCache{}
	}

	// freecache expires whole seconds only
	ttl := max(int(conf.Cache.TTL.Seconds()), 1)
	logger.Infof(TypeApp, "View cache: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		views: freecache.NewCache(conf.Cache.Size * bytesPerMB),
		ttl:   ttl,
	}
}

// keyBytes avoids a copy per lookup. freecache copies keys it stores.
func keyBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	view, err := c.views.Get(keyBytes(key))
	if err != nil {
		return nil, false
	}
	return view, true
}

func (c *CacheProvider) Set(key string, value []byte) {
	_ = c.views.Set(keyBytes(key), value, c.ttl)
}

func (c *CacheProvider) EntryCount() int64 {
	return c.views.EntryCount()
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
func (n *noopCache) EntryCount() int64           { return 0 }
