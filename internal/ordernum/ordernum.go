package ordernum

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const maxAttempts = 5

// ExistsFunc reports whether an order number is already taken.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

type Generator struct {
	Exists ExistsFunc
	Now    func() time.Time
}

// Generate returns a fresh ORD-YYYYMMDD-XXXXXX number, retrying on the
// rare collision of the 24-bit random suffix.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := candidate(now())
		if err != nil {
			return "", err
		}

		taken, err := g.Exists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("order number: no unique candidate after %d attempts", maxAttempts)
}

func candidate(t time.Time) (string, error) {
	var suffix [3]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%s",
		t.UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(suffix[:])),
	), nil
}
