package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultLimit is the page size used when the caller sends none.
const DefaultLimit = 50

var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive numeric record id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// Paging reads the limit and offset query parameters.
func Paging(c *gin.Context) (limit, offset int, err error) {
	limit, offset = DefaultLimit, 0
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
	}
	if s := c.Query("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil || offset < 0 {
			return 0, 0, errors.New("invalid offset")
		}
	}
	return limit, offset, nil
}
