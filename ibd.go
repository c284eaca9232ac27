package blockreader

// IBDStatus is a point-in-time judgement of whether the node behind the
// reader is still in initial block download. Advisory only: the node keeps
// syncing regardless of who asks.
type IBDStatus int

const (
	// IBDStatusNoData means the block index holds no headers at all.
	IBDStatusNoData IBDStatus = iota

	// IBDStatusInIBD means validation has not produced a chain yet, or the
	// validated tip trails the header tip by more than the configured
	// threshold.
	IBDStatusInIBD

	// IBDStatusSynced means the validated tip is within the threshold of the
	// header tip.
	IBDStatusSynced
)

func (s IBDStatus) String() string {
	switch s {
	case IBDStatusNoData:
		return "nodata"
	case IBDStatusInIBD:
		return "ibd"
	case IBDStatusSynced:
		return "synced"
	default:
		return "unknown"
	}
}
