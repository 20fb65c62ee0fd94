package ops

import (
	"context"
	"database/sql"
	"math/rand/v2"

	"github.com/jack22dx/seed/internal/db"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/oracle"
)

// RandomFact returns one fact of a type chosen uniformly with rng. A nil rng
// uses the global source.
func RandomFact(ctx context.Context, database *sql.DB, typ string, rng *rand.Rand) (*oracle.Fact, error) {
	name, err := resolveType("type", typ)
	if err != nil {
		return nil, err
	}
	facts, err := db.ListFacts(ctx, database, name)
	if err != nil {
		return nil, err
	}
	if len(facts) == 0 {
		return nil, errors.NewNotFound("facts for " + name)
	}

	var i int
	if rng != nil {
		i = rng.IntN(len(facts))
	} else {
		i = rand.IntN(len(facts))
	}
	return &facts[i], nil
}

// TipInput contains parameters for GetTip.
type TipInput struct {
	Type  string // required
	Level int    // default: 1
	Seq   int    // default: 1
}

// GetTip returns the tip of a type at (level, seq).
func GetTip(ctx context.Context, database *sql.DB, input TipInput) (*oracle.Tip, error) {
	name, err := resolveType("type", input.Type)
	if err != nil {
		return nil, err
	}
	if input.Level == 0 {
		input.Level = 1
	}
	if input.Seq == 0 {
		input.Seq = 1
	}
	if input.Level < 0 || input.Seq < 0 {
		return nil, errors.NewInvalidRequest("level and seq must be positive")
	}
	return db.GetTip(ctx, database, name, input.Level, input.Seq)
}
