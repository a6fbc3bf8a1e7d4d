package random

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestBetweenIsInclusive(t *testing.T) {
	src := NewSeeded(7)
	seenMin, seenMax := false, false
	for i := 0; i < 2000; i++ {
		v := Between(src, 1, 5)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 5)
		seenMin = seenMin || v == 1
		seenMax = seenMax || v == 5
	}
	require.True(t, seenMin)
	require.True(t, seenMax)
	require.Equal(t, 3, Between(src, 3, 3))
}
