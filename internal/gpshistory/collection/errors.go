package collection

import "fmt"

// CapacityBelowLengthError is returned by SetCapacity when the requested
// capacity would be smaller than the collection's current length.
type CapacityBelowLengthError struct {
	Requested int
	Length    int
}

func (e *CapacityBelowLengthError) Error() string {
	return fmt.Sprintf("collection: requested capacity %d below current length %d", e.Requested, e.Length)
}

// IndexOutOfRangeError is returned by Get when the index is outside
// [0, Len()).
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("collection: index %d out of range for length %d", e.Index, e.Length)
}

// SortOrderViolationError is returned by Append under the ThrowIfWrongItems
// policy when the appended item would break time ordering.
type SortOrderViolationError struct {
	Index int
}

func (e *SortOrderViolationError) Error() string {
	return fmt.Sprintf("collection: append at index %d would violate time ordering", e.Index)
}
