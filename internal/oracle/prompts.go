package oracle

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"optimistic-arena/internal/arena"
)

var defaultPrompts = []string{
	"Describe a sunrise to someone who has only ever seen the moon.",
	"Pitch a new holiday and explain how people celebrate it.",
	"Write the opening line of a mystery set in a library.",
	"Explain consensus to a room full of cats.",
	"Give a two-sentence review of the last dream you remember.",
	"Invent a sport that can be played in an elevator.",
}

// Deck draws prompts uniformly from a fixed list.
type Deck struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	prompts []string
}

// NewDeck builds a deck from prompts, or the built-in list when empty.
// Seed 0 uses the clock.
func NewDeck(prompts []string, seed int64) *Deck {
	clean := make([]string, 0, len(prompts))
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		clean = append(clean, defaultPrompts...)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Deck{rnd: rand.New(rand.NewSource(seed)), prompts: clean}
}

func (d *Deck) NextPrompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", arena.ErrPromptUnavailable, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prompts[d.rnd.Intn(len(d.prompts))], nil
}
