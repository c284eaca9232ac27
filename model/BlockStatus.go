package model

// BlockValidity is how far a block has progressed through validation. Each
// level implies all the ones below it.
type BlockValidity uint32

const (
	// BlockValidityUnknown means nothing has been checked yet.
	BlockValidityUnknown BlockValidity = 0

	// BlockValidityHeader means the header passed proof of work and
	// timestamp checks.
	BlockValidityHeader BlockValidity = 1

	// BlockValidityTree means the merkle tree and size limits checked out.
	BlockValidityTree BlockValidity = 2

	// BlockValidityTransactions means every transaction was well formed.
	BlockValidityTransactions BlockValidity = 3

	// BlockValidityChain means contextual checks against the parent chain
	// passed (coinbase maturity, locktime, witness commitments).
	BlockValidityChain BlockValidity = 4

	// BlockValidityScripts means all scripts and signatures verified. Only
	// blocks at this level count as fully validated.
	BlockValidityScripts BlockValidity = 5
)

func (v BlockValidity) String() string {
	switch v {
	case BlockValidityUnknown:
		return "unknown"
	case BlockValidityHeader:
		return "header"
	case BlockValidityTree:
		return "tree"
	case BlockValidityTransactions:
		return "transactions"
	case BlockValidityChain:
		return "chain"
	case BlockValidityScripts:
		return "scripts"
	default:
		return "invalid"
	}
}

// BlockStatus packs the validity level and the per-block data flags into a
// single value, which is how the chain index stores it.
type BlockStatus uint32

const (
	// StatusValidityMask extracts the validity level from a packed status.
	// The chain index uses it to filter validated blocks in SQL.
	StatusValidityMask BlockStatus = 0x07

	// StatusHasBlockData is set when the full block payload is stored.
	StatusHasBlockData BlockStatus = 1 << 3

	// StatusHasUndoData is set when the spent-coin undo payload is stored.
	StatusHasUndoData BlockStatus = 1 << 4

	// StatusHasWitness is set when the block was validated with witness data.
	StatusHasWitness BlockStatus = 1 << 5

	// StatusFailed is set when the block failed validation, or descends from
	// one that did.
	StatusFailed BlockStatus = 1 << 6
)

// NewBlockStatus combines a validity level with data flags.
func NewBlockStatus(validity BlockValidity, flags BlockStatus) BlockStatus {
	return BlockStatus(validity)&StatusValidityMask | flags&^StatusValidityMask
}

func (s BlockStatus) Validity() BlockValidity {
	return BlockValidity(s & StatusValidityMask)
}

func (s BlockStatus) HasBlockData() bool {
	return s&StatusHasBlockData != 0
}

func (s BlockStatus) HasUndoData() bool {
	return s&StatusHasUndoData != 0
}

func (s BlockStatus) HasWitness() bool {
	return s&StatusHasWitness != 0
}

func (s BlockStatus) IsFailed() bool {
	return s&StatusFailed != 0
}

// IsValid reports whether the block reached at least the given validity
// level and did not fail.
func (s BlockStatus) IsValid(upto BlockValidity) bool {
	return s.Validity() >= upto && !s.IsFailed()
}

// IsValidated reports whether the block reached full script validation and
// did not fail afterwards.
func (s BlockStatus) IsValidated() bool {
	return s.IsValid(BlockValidityScripts)
}
