package model

import "fmt"

// InvalidDrawError reports a draw that is not 15 distinct numbers in range.
type InvalidDrawError struct {
	Contest int
	Numbers []int
	Reason  string
}

func (e *InvalidDrawError) Error() string {
	if e.Contest > 0 {
		return fmt.Sprintf("invalid draw for contest %d: %s", e.Contest, e.Reason)
	}
	return fmt.Sprintf("invalid draw %v: %s", e.Numbers, e.Reason)
}
