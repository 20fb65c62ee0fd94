package ops

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jack22dx/seed/internal/activity"
	"github.com/jack22dx/seed/internal/errors"
	"github.com/jack22dx/seed/internal/events"
)

// ActivityRepository is the read side of the ledger. Views hold their own
// copies of activity state and re-read when Subscribe delivers an event.
type ActivityRepository interface {
	GetAll(ctx context.Context) ([]activity.Record, error)
	GetByName(ctx context.Context, name string) (*activity.Record, error)
	Subscribe(ctx context.Context, buffer int) <-chan events.Event
}

var _ ActivityRepository = (*Ledger)(nil)

// resolveType maps a user-supplied activity or oracle type to its canonical
// display name.
func resolveType(field, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.NewInvalidRequest(field + " is required")
	}
	name, ok := activity.Canonical(raw)
	if !ok {
		return "", errors.NewUnknownActivity(raw)
	}
	return name, nil
}

func generateULID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
