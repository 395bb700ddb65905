// Package store implements C2 (spec §2, §4.2): the heap of address-
// addressed value slots and the call stack of name-to-address and
// name-to-function bindings that together make up the runtime State.
package store

import (
	"github.com/mu-lang/mu/internal/ast"
	"github.com/mu-lang/mu/internal/errors"
)

// Cell is one heap slot: a value paired with the lifetime (scope depth)
// it was allocated at.
type Cell struct {
	Value    ast.Value
	Lifetime ast.Lifetime
}

// Heap is the store: address -> Cell. Fresh addresses are minted
// monotonically increasing and are never reused after a cell is dropped
// (spec invariant I5).
type Heap struct {
	cells map[ast.Address]Cell
	next  ast.Address
}

// NewHeap returns an empty heap. Address 0 is never allocated, so it is
// safe to use as a sentinel zero value where an Address is needed before
// any allocation has happened.
func NewHeap() *Heap {
	return &Heap{cells: make(map[ast.Address]Cell), next: 1}
}

// Allocate mints a fresh address, stores value at lifetime, and returns
// an owning reference to it (spec §4.2).
func (h *Heap) Allocate(value ast.Value, lifetime ast.Lifetime) ast.Ref {
	addr := h.next
	h.next++
	h.cells[addr] = Cell{Value: value, Lifetime: lifetime}
	return ast.Ref{Addr: addr, Owned: true}
}

// Read returns the value stored at addr. A missing cell is an interpreter
// invariant violation (I1/I5), not a surface error.
func (h *Heap) Read(addr ast.Address) (ast.Value, error) {
	c, ok := h.cells[addr]
	if !ok {
		return nil, errors.MissingStoreCell(addr)
	}
	return c.Value, nil
}

// Write overwrites the value at addr in place, preserving its lifetime.
func (h *Heap) Write(addr ast.Address, value ast.Value) error {
	c, ok := h.cells[addr]
	if !ok {
		return errors.MissingStoreCell(addr)
	}
	c.Value = value
	h.cells[addr] = c
	return nil
}

// Drop recursively drops v: if v is an owning reference, its cell's
// value is dropped first, then the cell itself is removed. Any other
// value is a no-op. Drop is total and idempotent on Undefined (spec
// §4.2).
func (h *Heap) Drop(v ast.Value) error {
	ref, ok := v.(ast.Ref)
	if !ok || !ref.Owned {
		return nil
	}
	c, ok := h.cells[ref.Addr]
	if !ok {
		return errors.MissingStoreCell(ref.Addr)
	}
	if err := h.Drop(c.Value); err != nil {
		return err
	}
	delete(h.cells, ref.Addr)
	return nil
}

// DropLifetime removes every cell whose lifetime equals l.
func (h *Heap) DropLifetime(l ast.Lifetime) {
	for addr, c := range h.cells {
		if c.Lifetime == l {
			delete(h.cells, addr)
		}
	}
}

// Clone returns a deep-enough copy of h: the cell map is copied, but
// since cell values are themselves immutable value types, copying the
// map is sufficient to let the clone be mutated independently of h. Used
// by the property checker to speculatively step a term without affecting
// the real heap (spec §4.5 assert_progress/assert_preservation).
func (h *Heap) Clone() *Heap {
	cells := make(map[ast.Address]Cell, len(h.cells))
	for addr, c := range h.cells {
		cells[addr] = c
	}
	return &Heap{cells: cells, next: h.next}
}

// Lifetime returns the lifetime recorded for the cell at addr.
func (h *Heap) Lifetime(addr ast.Address) (ast.Lifetime, bool) {
	c, ok := h.cells[addr]
	return c.Lifetime, ok
}

// Values returns every live value in the heap, keyed by address — used by
// the property checker to scan for aliasing and duplicate references
// (spec §4.5 valid_store).
func (h *Heap) Values() map[ast.Address]ast.Value {
	out := make(map[ast.Address]ast.Value, len(h.cells))
	for addr, c := range h.cells {
		out[addr] = c.Value
	}
	return out
}
