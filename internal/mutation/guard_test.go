package mutation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/nightcrew/backend/internal/domain"
	"github.com/pkordes/nightcrew/backend/internal/mutation"
)

func TestGuard_RejectsSecondAcquire(t *testing.T) {
	g := mutation.NewGuard()

	release, err := g.Acquire("k")
	require.NoError(t, err)
	assert.True(t, g.Busy("k"))

	_, err = g.Acquire("k")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = g.Acquire("other")
	assert.NoError(t, err, "keys are independent")

	release()
	assert.False(t, g.Busy("k"))
	_, err = g.Acquire("k")
	assert.NoError(t, err)
}

func TestGuard_ReleaseIsIdempotent(t *testing.T) {
	g := mutation.NewGuard()
	first, err := g.Acquire("k")
	require.NoError(t, err)
	first()

	second, err := g.Acquire("k")
	require.NoError(t, err)
	first() // a stale release must not free the new holder

	assert.True(t, g.Busy("k"))
	second()
	assert.False(t, g.Busy("k"))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", mutation.Idle.String())
	assert.Equal(t, "pending", mutation.Pending.String())
	assert.Equal(t, "success", mutation.Success.String())
	assert.Equal(t, "error", mutation.Error.String())
	assert.Equal(t, "unknown", mutation.Status(42).String())
}
