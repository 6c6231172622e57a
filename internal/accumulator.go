package internal

import "iter"

type Accumulator[Item any] interface {
	Push(item Item)
	Size() int
	Iter() iter.Seq[Item]
	Reset()
	Derive() Accumulator[Item]
}
