package simruntime

import (
	"github.com/decred/dcrd/lru"

	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/channelstate"
)

// cacheSize bounds how many decoded ChannelStates the store keeps hot. A
// handful of actively-claimed channels is the common case for any one
// integration run; this is generous headroom over that, not a tuned
// production figure.
const cacheSize = 256

// decodeCache fronts the goleveldb store with an LRU of already-decoded
// ChannelStates, keyed by channel key, so a claim sequence against the same
// channel doesn't re-run a gob decode on every transaction the way a cold
// read from the account store would.
type decodeCache struct {
	keys     *lru.Cache[chainhash.Hash]
	decoded  map[chainhash.Hash]*channelstate.State
}

func newDecodeCache(limit uint) *decodeCache {
	return &decodeCache{
		keys:    lru.NewCache[chainhash.Hash](limit),
		decoded: make(map[chainhash.Hash]*channelstate.State, limit),
	}
}

func (c *decodeCache) get(key chainhash.Hash) (*channelstate.State, bool) {
	if !c.keys.Contains(key) {
		return nil, false
	}
	cs, ok := c.decoded[key]
	return cs, ok
}

func (c *decodeCache) put(key chainhash.Hash, cs *channelstate.State) {
	c.keys.Add(key)
	c.decoded[key] = cs

	// The lru.Cache is the real membership authority; decoded is just a
	// value side-table for the keys it currently holds. Sweep it whenever it
	// grows past the LRU's own limit rather than trying to track individual
	// evictions, since lru.Cache doesn't report which key it dropped.
	if len(c.decoded) > int(cacheSize) {
		for k := range c.decoded {
			if !c.keys.Contains(k) {
				delete(c.decoded, k)
			}
		}
	}
}

func (c *decodeCache) delete(key chainhash.Hash) {
	c.keys.Delete(key)
	delete(c.decoded, key)
}
