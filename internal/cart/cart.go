// Package cart holds the per-customer shopping cart.
package cart

import "sort"

// Entry is one cart line: a book identifier and a positive quantity.
type Entry struct {
	ISBN     string
	Quantity int32
}

// Cart maps ISBNs to positive quantities. A Cart belongs to exactly one
// customer session and is never shared between sessions, so it carries no
// synchronization. Quantities never reach zero: an entry that would drop
// to zero or below is removed instead.
type Cart struct {
	items map[string]int32
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[string]int32)}
}

// Add increments the quantity for the given ISBN by one, inserting the
// entry if it is not yet present.
func (c *Cart) Add(isbn string) {
	c.items[isbn]++
}

// Remove decrements the quantity for the given ISBN by one, deleting the
// entry when the quantity reaches zero. Removing an absent ISBN is a no-op.
func (c *Cart) Remove(isbn string) {
	c.Adjust(isbn, -1)
}

// Adjust changes the quantity for the given ISBN by delta. The entry is
// deleted when the resulting quantity is zero or below. Adjusting an
// absent ISBN upward inserts it.
func (c *Cart) Adjust(isbn string, delta int32) {
	current, ok := c.items[isbn]
	if !ok && delta <= 0 {
		return
	}
	next := current + delta
	if next <= 0 {
		delete(c.items, isbn)
		return
	}
	c.items[isbn] = next
}

// Clear removes all entries.
func (c *Cart) Clear() {
	c.items = make(map[string]int32)
}

// Len returns the number of distinct ISBNs in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Entries returns the cart content sorted by ISBN for deterministic
// iteration.
func (c *Cart) Entries() []Entry {
	entries := make([]Entry, 0, len(c.items))
	for isbn, qty := range c.items {
		entries = append(entries, Entry{ISBN: isbn, Quantity: qty})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ISBN < entries[j].ISBN
	})
	return entries
}
