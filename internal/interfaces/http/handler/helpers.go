package handler

import (
	"errors"
	"strconv"
)

// parseLimit parses a positive limit query parameter
func parseLimit(s string) (int, error) {
	limit, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if limit < 0 {
		return 0, errors.New("limit must not be negative")
	}
	return limit, nil
}
