package errorvalues

import "errors"

var (
	ErrCategoryNotFound = errors.New("category doesn't exist")
	ErrEntryNotFound    = errors.New("log entry doesn't exist")
	ErrProblemNotFound  = errors.New("problem doesn't exist")
	ErrNoActiveTarget   = errors.New("no active target")
	ErrNoBaselineWeight = errors.New("no logged or starting weight to base the target on")
	ErrInvalidDateRange = errors.New("range end is before range start")
	ErrInvalidOutcome   = errors.New("unknown target outcome")
	ErrSlotNotFound     = errors.New("storage slot doesn't exist")
	ErrWrongAccessKey   = errors.New("wrong access key")
	ErrInvalidToken     = errors.New("invalid token")
)
