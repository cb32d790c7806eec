package tiles

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// A Box is the shuffled pile of dominoes a game draws from.
type Box struct {
	dominoes []Domino
}

// NewBox shuffles the distribution and keeps as many dominoes as the
// player count calls for.
func NewBox(dist *Distribution, players int) (*Box, error) {
	return NewBoxFrom(dist, players, nil)
}

// NewBoxFrom is NewBox with the shuffle drawn from rng, so a seeded rng
// always yields the same box. A nil rng uses the global generator.
func NewBoxFrom(dist *Distribution, players int, rng *frand.RNG) (*Box, error) {
	size, err := LibrarySize(players)
	if err != nil {
		return nil, err
	}
	if size > len(dist.Dominoes) {
		return nil, fmt.Errorf("%w: want %d, %s distribution has %d",
			ErrNotEnoughTiles, size, dist.Name, len(dist.Dominoes))
	}
	all := make([]Domino, len(dist.Dominoes))
	copy(all, dist.Dominoes)
	shuffle := frand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	log.Debug().Int("players", players).Int("size", size).Msg("box-filled")
	return &Box{dominoes: all[:size]}, nil
}

// Draw removes n dominoes from the top of the box.
func (b *Box) Draw(n int) ([]Domino, error) {
	if n > len(b.dominoes) {
		return nil, fmt.Errorf("%w: tried to draw %d, box has %d",
			ErrNotEnoughTiles, n, len(b.dominoes))
	}
	drawn := make([]Domino, n)
	copy(drawn, b.dominoes[:n])
	b.dominoes = b.dominoes[n:]
	return drawn, nil
}

// Remaining returns how many dominoes are left.
func (b *Box) Remaining() int {
	return len(b.dominoes)
}
