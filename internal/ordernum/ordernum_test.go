package ordernum

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)

func TestGenerate_Format(t *testing.T) {
	t.Parallel()

	gen := &Generator{
		Exists: func(ctx context.Context, number string) (bool, error) { return false, nil },
		Now: func() time.Time {
			return time.Date(2026, 3, 9, 23, 59, 0, 0, time.FixedZone("ICT", 7*3600))
		},
	}

	number, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, numberPattern, number)
	assert.Equal(t, "ORD-20260309-", number[:13], "date segment is UTC")
}

func TestGenerate_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 10000)
	gen := &Generator{
		Exists: func(ctx context.Context, number string) (bool, error) {
			_, taken := seen[number]
			return taken, nil
		},
	}

	ctx := context.Background()
	for i := 0; i < 10000; i++ {
		number, err := gen.Generate(ctx)
		require.NoError(t, err)
		_, dup := seen[number]
		require.False(t, dup, "duplicate number %s at iteration %d", number, i)
		seen[number] = struct{}{}
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	t.Parallel()

	calls := 0
	gen := &Generator{
		Exists: func(ctx context.Context, number string) (bool, error) {
			calls++
			return calls <= 2, nil
		},
	}

	number, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, numberPattern, number)
	assert.Equal(t, 3, calls)
}

func TestGenerate_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	gen := &Generator{
		Exists: func(ctx context.Context, number string) (bool, error) {
			calls++
			return true, nil
		},
	}

	_, err := gen.Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}
