package model

// BlockIndexMeta carries the chain-index bookkeeping for one block, alongside
// the header itself.
type BlockIndexMeta struct {
	ID          uint32      `json:"id"`            // ID of the block in the internal block index DB.
	Height      uint32      `json:"height"`        // Height of the block in the blockchain.
	TxCount     uint64      `json:"tx_count"`      // Number of transactions in the block.
	SizeInBytes uint64      `json:"size_in_bytes"` // Size of the block in bytes.
	MedianTime  uint32      `json:"median_time"`   // Median time past of the block.
	ChainWork   []byte      `json:"chain_work"`    // Cumulative proof of work up to and including this block.
	Status      BlockStatus `json:"status"`        // Packed validity level and data flags.
}
