package garden

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Picker selects one eligible element uniformly at random. Safe for
// concurrent use.
type Picker struct {
	catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker over c drawing from src. A nil src is seeded
// from the clock.
func NewPicker(c *Catalog, src rand.Source) *Picker {
	if c == nil {
		c = defaultCatalog
	}
	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1|1)
	}
	return &Picker{catalog: c, rng: rand.New(src)}
}

// NewSeededPicker is NewPicker with a deterministic PCG source; seed 0 means
// clock-seeded.
func NewSeededPicker(c *Catalog, seed int64) *Picker {
	if seed == 0 {
		return NewPicker(c, nil)
	}
	return NewPicker(c, rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Pick returns one element from Eligible(activityName, count), or the table
// default when nothing is eligible.
func (p *Picker) Pick(activityName string, count int) (Element, error) {
	t, err := p.catalog.Table(activityName)
	if err != nil {
		return Element{}, err
	}
	names, err := p.catalog.Eligible(activityName, count)
	if err != nil {
		return Element{}, err
	}

	name := t.Default
	if len(names) > 0 {
		p.mu.Lock()
		name = names[p.rng.IntN(len(names))]
		p.mu.Unlock()
	}

	e, _ := p.catalog.Lookup(activityName, name)
	return e, nil
}
