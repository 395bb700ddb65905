package ast

// Address is a store location identifier. Fresh addresses are minted
// monotonically increasing by the store (spec §3, §4.2) and are never
// reused after a cell at that address is dropped.
type Address uint64

// Lifetime is scope-nesting depth at which a binding or cell was created.
// It determines when the binding's cell is freed: drop_lifetime(l) removes
// every cell whose lifetime equals l (spec §9: "lifetime as integer
// depth... no escape analysis needed").
type Lifetime int
