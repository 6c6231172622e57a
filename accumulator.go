package cooldown

import "github.com/devzbysiu/cooldown-buffer/internal"

// Accumulator collects items between flushes. Implementations are not
// considered thread-safe: an instance is only ever used by the run loop.
type Accumulator[Item any] = internal.Accumulator[Item]
