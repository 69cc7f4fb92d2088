// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - webspaces idle longer than idleTTL
//   - least-recently-used webspaces when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package webspace

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/locus/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// ----------------------------------------------------------------
		// Idle eviction pass
		// ----------------------------------------------------------------
		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > c.idleTTL {
				_ = ent.webspace.Close()
				c.m.Delete(key)
				zap.S().Infow("webspace evicted",
					"host", key, "idle", idle.Truncate(time.Second))
				metrics.WebspaceEvictTotal.Inc()
				metrics.ActiveWebspaces.Dec()
			}
			return true
		})

		// ----------------------------------------------------------------
		// LRU eviction pass
		// ----------------------------------------------------------------
		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-c.maxEntries && i < len(all); i++ {
				if v, ok := c.m.Load(all[i].key); ok {
					_ = v.(*entry).webspace.Close()
					c.m.Delete(all[i].key)
					zap.S().Infow("webspace evicted (LRU pressure)", "host", all[i].key)
					metrics.WebspaceEvictTotal.Inc()
					metrics.ActiveWebspaces.Dec()
				}
			}
		}
	}
}
