package reorg

import "fmt"

// ReorgDetectedError is returned when a blockchain reorganization is detected.
type ReorgDetectedError struct {
	Result Result
}

func (e *ReorgDetectedError) Error() string {
	return fmt.Sprintf("reorg detected: %d extra hashes across heights %v",
		e.Result.ExtraHashCount, e.Result.AffectedHeights)
}

// NewReorgError creates a new ReorgDetectedError.
func NewReorgError(res Result) error {
	return &ReorgDetectedError{Result: res}
}
