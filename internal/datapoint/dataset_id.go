package datapoint

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidDatasetID = errors.New("invalid dataset id")

// ParseDatasetID splits a "{startTimeNanos}-{endTimeNanos}" dataset id
// into its nanosecond bounds. Only the first two dash-separated tokens
// are considered, and both must be positive integers.
func ParseDatasetID(datasetID string) (startNanos, endNanos int64, err error) {
	parts := strings.Split(datasetID, "-")
	if len(parts) < 2 {
		return 0, 0, ErrInvalidDatasetID
	}
	startNanos, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil || startNanos <= 0 {
		return 0, 0, ErrInvalidDatasetID
	}
	endNanos, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil || endNanos <= 0 {
		return 0, 0, ErrInvalidDatasetID
	}
	return startNanos, endNanos, nil
}
