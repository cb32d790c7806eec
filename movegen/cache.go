package movegen

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/rs/zerolog/log"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/move"
	"github.com/castlebuilder/kingmaker/tiles"
)

const DefaultCacheSize = 1 << 16

type cacheKey struct {
	fingerprint uint64
	domino      tiles.Domino
}

// CachedGenerator remembers the moves generated for a (board, domino) pair.
// Exhaustive search reaches the same kingdom through different orders of
// play, and this skips regenerating moves for it. Boards are identified by
// their fingerprint. It is safe for concurrent use.
type CachedGenerator struct {
	mu     sync.Mutex
	inner  MoveGenerator
	lru    *simplelru.LRU
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedGenerator wraps inner with an LRU of the given size.
func NewCachedGenerator(inner MoveGenerator, size int) (*CachedGenerator, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	lru, err := simplelru.NewLRU(size, nil)
	if err != nil {
		return nil, err
	}
	return &CachedGenerator{inner: inner, lru: lru}, nil
}

func (g *CachedGenerator) GenAll(b *board.Board, d tiles.Domino) []move.Move {
	key := cacheKey{fingerprint: b.Fingerprint(), domino: d}
	g.mu.Lock()
	cached, ok := g.lru.Get(key)
	g.mu.Unlock()
	if ok {
		g.hits.Add(1)
		return append([]move.Move(nil), cached.([]move.Move)...)
	}
	g.misses.Add(1)
	moves := g.inner.GenAll(b, d)
	g.mu.Lock()
	g.lru.Add(key, append([]move.Move(nil), moves...))
	g.mu.Unlock()
	return moves
}

// Stats returns cache hits and misses since creation.
func (g *CachedGenerator) Stats() (hits, misses uint64) {
	return g.hits.Load(), g.misses.Load()
}

// LogStats writes the hit rate at debug level.
func (g *CachedGenerator) LogStats() {
	hits, misses := g.Stats()
	g.mu.Lock()
	size := g.lru.Len()
	g.mu.Unlock()
	log.Debug().Uint64("hits", hits).Uint64("misses", misses).Int("entries", size).
		Msg("movegen-cache-stats")
}
