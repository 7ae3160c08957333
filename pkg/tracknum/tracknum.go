// Package tracknum generates public tracking numbers of the form
// PREFIX-YYYY-NNN, e.g. AST-2026-041.
package tracknum

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"xpom-logistics/internal/models"
)

const (
	// suffixSpace is the size of the random suffix keyspace (000..999).
	suffixSpace = 1000

	// maxAttempts bounds the collision-retry loop. With a 3-digit suffix
	// the keyspace per prefix/year is small, so exhaustion is a real
	// failure mode once the year fills up, not an infinite loop.
	maxAttempts = 1000
)

// ErrExhausted is returned when no free suffix was found within the
// attempt budget.
var ErrExhausted = errors.New("tracknum: no free tracking number after max attempts")

// ExistsFunc reports whether a candidate tracking number is already taken.
type ExistsFunc func(ctx context.Context, trackingNumber string) (bool, error)

// Prefix maps an order type to its tracking-number prefix: AST for city
// deliveries, KZ for intercity transportation.
func Prefix(t models.OrderType) string {
	if t == models.TypeIntercity {
		return "KZ"
	}
	return "AST"
}

// Generate draws random candidates until one passes the uniqueness check.
// It does not persist anything; the caller inserts the order under the
// storage layer's unique constraint, which stays the final arbiter for
// concurrent creations.
func Generate(ctx context.Context, orderType models.OrderType, now time.Time, exists ExistsFunc) (string, error) {
	prefix := Prefix(orderType)
	year := now.Year()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(suffixSpace))
		if err != nil {
			return "", fmt.Errorf("tracknum.Generate: %w", err)
		}
		candidate := fmt.Sprintf("%s-%d-%03d", prefix, year, n.Int64())

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("tracknum.Generate: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
