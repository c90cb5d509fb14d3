// Package idalloc provides simple monotonic id allocators. The spec calls
// for per-process counters (Dog::id_counter_ etc in the original); we keep
// one allocator instance per Game so that restoring a snapshot can advance
// the counter without touching unrelated Games (see design notes in
// SPEC_FULL.md §9).
package idalloc

// Counter hands out increasing integer ids starting at 0. It is not
// goroutine-safe: callers rely on the single-strand scheduling model (see
// SPEC_FULL.md §5).
type Counter struct {
	next int
}

// Next returns the next id and advances the counter.
func (c *Counter) Next() int {
	id := c.next
	c.next++
	return id
}

// Peek returns the next id that would be allocated, without advancing.
func (c *Counter) Peek() int {
	return c.next
}

// EnsureAtLeast advances the counter so that Peek() >= n, never moving it
// backwards. Used by snapshot restore to avoid colliding with ids seen in
// the persisted stream.
func (c *Counter) EnsureAtLeast(n int) {
	if n > c.next {
		c.next = n
	}
}
