package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, s := range []string{"", "0", "-3", "abc", "4.2"} {
		_, err := ParseID(s)
		assert.ErrorIs(t, err, ErrInvalidID, s)
	}
}

func TestPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query         string
		limit, offset int
		wantErr       bool
	}{
		{"", DefaultLimit, 0, false},
		{"limit=10&offset=20", 10, 20, false},
		{"limit=0", 0, 0, true},
		{"offset=-1", 0, 0, true},
		{"limit=x", 0, 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)
		limit, offset, err := Paging(c)
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.limit, limit)
		assert.Equal(t, tt.offset, offset)
	}
}
