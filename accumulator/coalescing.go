package accumulator

import (
	"iter"

	"github.com/devzbysiu/cooldown-buffer/internal"
)

var _ internal.Accumulator[any] = (*CoalescingAccumulator[any, string])(nil)

// CoalescingAccumulator merges items that share a key. The batch keeps the
// order in which keys were first pushed, so insertion order is preserved for
// distinct keys. Useful when a burst produces many items about the same
// subject, e.g. repeated filesystem events for one path.
type CoalescingAccumulator[Item any, Key comparable] struct {
	keys      []Key
	items     map[Key]Item
	keyFunc   func(Item) Key
	mergeFunc func(Item, Item) Item
}

func Coalescing[Item any, Key comparable](
	keyFunc func(Item) Key,
	mergeFunc func(Item, Item) Item,
) *CoalescingAccumulator[Item, Key] {
	return &CoalescingAccumulator[Item, Key]{
		items:     make(map[Key]Item),
		keyFunc:   keyFunc,
		mergeFunc: mergeFunc,
	}
}

func (a *CoalescingAccumulator[Item, Key]) Push(item Item) {
	key := a.keyFunc(item)
	if existing, ok := a.items[key]; ok {
		a.items[key] = a.mergeFunc(existing, item)
		return
	}
	a.keys = append(a.keys, key)
	a.items[key] = item
}

func (a *CoalescingAccumulator[Item, Key]) Size() int {
	return len(a.keys)
}

func (a *CoalescingAccumulator[Item, Key]) Iter() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, key := range a.keys {
			if !yield(a.items[key]) {
				return
			}
		}
	}
}

func (a *CoalescingAccumulator[Item, Key]) Reset() {
	clear(a.items)
	a.keys = a.keys[:0]
}

func (a *CoalescingAccumulator[Item, Key]) Derive() Accumulator[Item] {
	return Coalescing(a.keyFunc, a.mergeFunc)
}
