package accumulator_test

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	cooldown "github.com/devzbysiu/cooldown-buffer"
	"github.com/devzbysiu/cooldown-buffer/accumulator"
	"github.com/devzbysiu/cooldown-buffer/internal/testing/require"
)

var _ cooldown.Accumulator[any] = (*accumulator.AppendingAccumulator[any])(nil)

func TestAppendingAccumulator(t *testing.T) {
	type Item struct {
		ID string
		N1 int
		N2 int
	}

	var input []Item
	for i := range 1000 {
		input = append(input, Item{
			ID: strconv.Itoa(i),
			N1: rand.IntN(1000),
			N2: rand.IntN(1000),
		})
	}

	acc := accumulator.Appending[Item]()
	require.Equal(t, acc.Size(), 0)

	for i, item := range input {
		acc.Push(item)
		require.Equal(t, acc.Size(), i+1)
	}

	items := slices.Collect(acc.Iter())
	require.Equal(t, len(items), acc.Size())
	require.Equal(t, items, input)

	acc.Reset()

	items = slices.Collect(acc.Iter())
	require.Equal(t, acc.Size(), 0)
	require.Equal(t, len(items), 0)
}

func TestAppendingAccumulatorDerive(t *testing.T) {
	acc := accumulator.Appending[int]()
	acc.Push(1)

	derived := acc.Derive()
	require.Equal(t, derived.Size(), 0)

	derived.Push(2)
	require.Equal(t, acc.Size(), 1)
	require.Equal(t, derived.Size(), 1)
}
