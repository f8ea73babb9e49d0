package collection

// SortPolicy governs what Append does when the incoming item would break
// time ordering relative to the last stored item (spec §4.D).
type SortPolicy int

const (
	// NotRequired appends unconditionally; sortedByTime is cleared the
	// first time ordering is violated and never recovers.
	NotRequired SortPolicy = iota

	// SkipWrongItems silently drops an out-of-order item: Len and
	// sortedByTime are both left unchanged.
	SkipWrongItems

	// ThrowIfWrongItems rejects an out-of-order item with a
	// SortOrderViolationError; the collection is left unchanged.
	ThrowIfWrongItems
)

func (p SortPolicy) String() string {
	switch p {
	case NotRequired:
		return "NotRequired"
	case SkipWrongItems:
		return "SkipWrongItems"
	case ThrowIfWrongItems:
		return "ThrowIfWrongItems"
	default:
		return "Unknown"
	}
}
