package avatar

import "github.com/wricardo/dogloot/internal/loot"

// Bag is a bounded ordered carry of loot objects.
type Bag struct {
	capacity int
	items    []loot.Object
}

// NewBag creates an empty bag with the given capacity (>= 1).
func NewBag(capacity int) Bag {
	if capacity < 1 {
		capacity = 1
	}
	return Bag{capacity: capacity}
}

// IsFull reports whether the bag holds at least capacity items.
func (b Bag) IsFull() bool {
	return len(b.items) >= b.capacity
}

// Len returns the number of items carried.
func (b Bag) Len() int {
	return len(b.items)
}

// Capacity returns the bag's capacity.
func (b Bag) Capacity() int {
	return b.capacity
}

// Items returns the carried loot objects in pickup order.
func (b Bag) Items() []loot.Object {
	return b.items
}

// Add appends an item to the bag. Callers must check IsFull first; Add does
// not enforce capacity itself so restore can replay a bag exactly.
func (b *Bag) Add(o loot.Object) {
	b.items = append(b.items, o)
}

// Empty clears the bag and returns what it held, for banking at an office.
func (b *Bag) Empty() []loot.Object {
	items := b.items
	b.items = nil
	return items
}
