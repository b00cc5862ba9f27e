package storage

// Storage is the interface the trie core depends on (spec.md §4.1): a
// path-addressed store of stem metadata, branch metadata and branch
// child-index maps, plus the leaf values themselves. Nothing above this
// package ever holds a live node graph; every lookup goes through here,
// keyed by the path from the root.
type Storage interface {
	// GetLeaf returns the 32-byte value stored at (stem, index), if any.
	GetLeaf(stem [31]byte, index byte) ([32]byte, bool, error)

	// GetStemMeta returns the commitments for the given stem.
	GetStemMeta(stem [31]byte) (*StemMeta, bool, error)

	// GetBranchMeta returns the commitment for the branch at path.
	GetBranchMeta(path []byte) (*BranchMeta, bool, error)

	// GetBranchChild answers child(path, i): what occupies slot i of
	// the branch at path, if anything.
	GetBranchChild(path []byte, index byte) (ChildRef, bool, error)

	// GetStemChildren returns every occupied leaf slot under stem. The
	// trie core and proof construction do not call it.
	GetStemChildren(stem [31]byte) ([]SlotValue, error)

	// RootIsMissing reports whether the trie has never had a root
	// branch written (the empty-trie case).
	RootIsMissing() (bool, error)

	// InsertLeaf writes a leaf value.
	InsertLeaf(stem [31]byte, index byte, value [32]byte) error

	// InsertStem writes or overwrites a stem's metadata.
	InsertStem(stem [31]byte, meta *StemMeta) error

	// InsertBranch writes or overwrites a branch's metadata.
	InsertBranch(path []byte, meta *BranchMeta) error

	// AddStemAsBranchChild records that stem occupies slot index of
	// the branch at path (or that a child branch does, if stem is
	// the zero value and kind is ChildBranch).
	AddStemAsBranchChild(path []byte, index byte, ref ChildRef) error

	// Flush commits every staged write as one atomic unit.
	Flush() error
}
