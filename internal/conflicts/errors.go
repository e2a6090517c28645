package conflicts

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is matched (via errors.Is) by the ValidationError returned
// for a query without any populated field.
var ErrEmptyQuery = errors.New("conflicts: at least one of given_name, first_surname, second_surname or company_name is required")

// ValidationError reports a query the checker refuses to run.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// DataAccessError reports a failed read of the firm's records. A search that
// hits one never returns a partial report.
type DataAccessError struct {
	Op     string // the read that failed, e.g. "list clients"
	FirmID int64
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("conflicts: %s for firm %d: %v", e.Op, e.FirmID, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }
