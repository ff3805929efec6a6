package sheetstore

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator produces client-side identifiers that do not collide with existing ones.
// Uniqueness is only checked against existing; two writers can still pick the same id.
type IDGenerator interface {
	NextID(existing []string) (string, error)
}

// PrefixedIDGenerator samples Prefix followed by a Digits-long number (C12345).
type PrefixedIDGenerator struct {
	Prefix string
	Digits int
	// Intn returns a value in [0, n); defaults to math/rand/v2.IntN
	Intn func(n int) int
}

const maxIDAttempts = 1000

// NextID returns an identifier absent from existing
func (g PrefixedIDGenerator) NextID(existing []string) (string, error) {
	if g.Digits < 1 || g.Digits > 18 {
		return "", fmt.Errorf("invalid digit count %d", g.Digits)
	}
	intn := g.Intn
	if intn == nil {
		intn = rand.IntN
	}

	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		taken[id] = struct{}{}
	}

	low := pow10(g.Digits - 1)
	span := pow10(g.Digits) - low
	if g.Digits == 1 {
		low, span = 0, 10
	}
	for i := 0; i < maxIDAttempts; i++ {
		id := fmt.Sprintf("%s%d", g.Prefix, low+intn(span))
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: prefix %q with %d digits", ErrIDSpaceExhausted, g.Prefix, g.Digits)
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// UUIDGenerator issues Prefix + random UUID; collisions are negligible so existing is ignored
type UUIDGenerator struct {
	Prefix string
}

// NextID returns a new random identifier
func (g UUIDGenerator) NextID(existing []string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return g.Prefix + id.String(), nil
}
