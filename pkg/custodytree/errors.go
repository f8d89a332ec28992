// Package custodytree implements a range-coalescing red-black tree over
// 32-bit unsigned integer identifiers. Present values are stored as maximal
// consecutive runs ("ranges"); adjacent inserts merge ranges together and
// interior deletes split them apart. The tree draws its nodes from a single
// fixed-size arena allocated at creation time: apart from Create, FromRanges
// and the Nodes debugging snapshot, no operation in this package allocates
// on the heap.
package custodytree

import "errors"

// Sentinel errors returned by Tree operations. These form a single flat
// set, mirroring the error taxonomy of the arena-backed tree this package
// is modeled on: operations either fully apply or fully no-op.
var (
	// ErrNullTree is returned by every error-returning operation on a
	// destroyed tree.
	ErrNullTree = errors.New("custodytree: null tree")

	// ErrSizeZero is returned by Create when max_size is zero.
	ErrSizeZero = errors.New("custodytree: size zero")

	// ErrExceededMaxSize is returned by Create when max_size exceeds the
	// capacity ceiling (2^32/2)+1.
	ErrExceededMaxSize = errors.New("custodytree: exceeded max size")

	// ErrMemErr is returned when the backing arena cannot be allocated.
	// Create's one allocation is a plain make([]node, n), which panics
	// rather than returning an error on OOM, so this sentinel currently
	// has no reachable return site; kept as part of the error taxonomy in
	// case a future allocation strategy needs it.
	ErrMemErr = errors.New("custodytree: allocation error")

	// ErrTreeFull is returned when an insert or a mid-range delete split
	// needs a node and the arena has none free. The tree is left unchanged.
	ErrTreeFull = errors.New("custodytree: tree full")

	// ErrInsertDuplicate is returned when the inserted value is already
	// covered by some range. Not a failure: the tree is unchanged and the
	// caller can tell "already present" from "inserted now".
	ErrInsertDuplicate = errors.New("custodytree: value already present")

	// ErrValueNotFound is returned by Delete when no range covers the value.
	ErrValueNotFound = errors.New("custodytree: value not found")

	// ErrNullNode is returned by iterator steps taken past the end.
	ErrNullNode = errors.New("custodytree: null node")

	// ErrNullRange is returned when an iterator step has no range to yield.
	// Next always returns ErrNullNode first in that situation (it checks
	// it.node == 0 before ever reading a range out of the arena), so this
	// sentinel has no reachable return site today; kept distinct from
	// ErrNullNode for callers that want to report "no range" rather than
	// "no node" if a future API surfaces ranges without going through the
	// iterator's node-indexed walk.
	ErrNullRange = errors.New("custodytree: null range")
)
