package accumulator

import (
	"iter"
	"slices"

	"github.com/devzbysiu/cooldown-buffer/internal"
)

var _ internal.Accumulator[any] = (*AppendingAccumulator[any])(nil)

// AppendingAccumulator keeps every pushed item, preserving insertion order.
// It is the default accumulator of a buffer.
type AppendingAccumulator[Item any] struct {
	items []Item
}

func Appending[Item any]() *AppendingAccumulator[Item] {
	return &AppendingAccumulator[Item]{
		items: make([]Item, 0),
	}
}

func (a *AppendingAccumulator[Item]) Push(item Item) {
	a.items = append(a.items, item)
}

func (a *AppendingAccumulator[Item]) Size() int {
	return len(a.items)
}

func (a *AppendingAccumulator[Item]) Iter() iter.Seq[Item] {
	return slices.Values(a.items)
}

func (a *AppendingAccumulator[Item]) Reset() {
	clear(a.items)
	a.items = a.items[:0]
}

func (a *AppendingAccumulator[Item]) Derive() Accumulator[Item] {
	return Appending[Item]()
}
