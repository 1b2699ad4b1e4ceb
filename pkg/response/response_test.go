package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstreamErr struct{ status int }

func (e upstreamErr) Error() string       { return fmt.Sprintf("status %d", e.status) }
func (e upstreamErr) HTTPStatus() int     { return e.status }
func (e upstreamErr) UserMessage() string { return "Resource not found." }
func (e upstreamErr) ErrorDetails() string {
	return "Not found"
}

func serve(t *testing.T, err error) (int, Body) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err, "could not load")
	var body Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestErrorUsesCarriedStatus(t *testing.T) {
	code, body := serve(t, fmt.Errorf("get patient: %w", upstreamErr{status: http.StatusNotFound}))
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, body.Success)
	assert.Equal(t, "Resource not found.", body.Error)
	assert.Equal(t, "Not found", body.Details)
}

func TestErrorFallback(t *testing.T) {
	code, body := serve(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "could not load", body.Error)
	assert.Empty(t, body.Details)
}
