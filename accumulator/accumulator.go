// This package contains the main [Accumulator] interface and several
// implementations.
package accumulator

import "github.com/devzbysiu/cooldown-buffer/internal"

// Accumulator is an in-memory container for items awaiting a flush.
//
// Implementations are not considered thread-safe: the buffer confines the
// instance it derives to a single goroutine.
type Accumulator[Item any] = internal.Accumulator[Item]
