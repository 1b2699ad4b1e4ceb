package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID int `json:"id"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []item
	}{
		{"array", `[{"id": 1}, {"id": 2}]`, []item{{1}, {2}}},
		{"page", `{"items": [{"id": 3}], "total": 10, "limit": 1, "offset": 2}`, []item{{3}}},
		{"empty page", `{"total": 0}`, []item{}},
		{"null", `null`, []item{}},
		{"empty body", ``, []item{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList[item]([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := decodeList[item]([]byte(`"nope"`))
	assert.Error(t, err)
}

func TestGetListSendsPaging(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id": 9}]`))
	}))
	defer server.Close()

	got, err := GetList[item](context.Background(), New(Config{BaseURL: server.URL}), "/devices", Page(50, 0))
	require.NoError(t, err)
	assert.Equal(t, []item{{9}}, got)
	assert.Equal(t, "limit=50", query)
}
