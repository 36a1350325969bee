// Package handle models the out-of-band side channel used to carry OS
// handles (file descriptors, sockets, kernel objects) alongside a NOP byte
// stream (spec §4.H). Handles are never byte-serializable; only a reference
// into this side table ever appears inline in the wire format.
package handle

import "github.com/vincentlao/libnop/errors"

// Reference is an index into a Table, meaningful only to the reader paired
// with the writer that produced it. Spec §9 Open Question (b) leaves the
// width transport-defined and suggests 32-bit when unconstrained.
type Reference uint32

// Handle is the minimal shape this module requires of an OS handle. The
// real handle-passing transport is an external collaborator (spec §1); this
// module never looks past Close.
type Handle interface {
	Close() error
}

// Table is the side table a Writer pushes handles onto and a paired Reader
// pulls them from. The codec does not duplicate or reference-count entries
// (spec §5): whichever side most recently pushed or got a handle owns it.
//
// A zero-value Table is usable; Get on an empty Table always fails, which
// is exactly the degraded behavior spec §4.H allows for "implementations
// that lack OS handle passing" ("may stub the channel").
type Table struct {
	handles []Handle
}

// Push appends h to the table and returns the Reference a peer would use
// to retrieve it.
func (t *Table) Push(h Handle) Reference {
	t.handles = append(t.handles, h)
	return Reference(len(t.handles) - 1)
}

// Get resolves ref to the Handle it names.
func (t *Table) Get(ref Reference) (Handle, error) {
	if int(ref) < 0 || int(ref) >= len(t.handles) {
		return nil, errors.New(errors.InvalidContainerLength,
			"handle reference %d out of range (table holds %d entries)", ref, len(t.handles))
	}
	return t.handles[ref], nil
}

// Len reports how many handles have been pushed.
func (t *Table) Len() int { return len(t.handles) }
