package acquisition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurales/dashboard/internal/upstream"
)

type fakeLive struct {
	asked []string
}

func (f *fakeLive) Live(_ context.Context, id string) (*upstream.LiveMetrics, error) {
	f.asked = append(f.asked, id)
	return &upstream.LiveMetrics{FatigueScore: 21, Quality: 60}, nil
}

func newTestRouter(s *Store, live LivePoller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, live)
	r := gin.New()
	r.GET("/acquisition/state", h.State)
	r.POST("/acquisition/start", h.Start)
	r.POST("/acquisition/stop", h.Stop)
	r.POST("/acquisition/electrodes/toggle", h.Toggle)
	r.PUT("/acquisition/electrodes", h.SetElectrodes)
	r.DELETE("/acquisition/electrodes", h.ClearElectrodes)
	r.GET("/acquisition/live", h.Live)
	r.GET("/electrodes", h.Electrodes)
	return r
}

func doJSON(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, State) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	var env struct {
		Data State `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env.Data
}

func TestHandlerSelection(t *testing.T) {
	r := newTestRouter(newTestStore(nil, nil), nil)

	rec, s := doJSON(r, http.MethodPost, "/acquisition/electrodes/toggle", `{"id": "Fp1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Fp1"}, s.SelectedElectrodes)

	rec, _ = doJSON(r, http.MethodPost, "/acquisition/electrodes/toggle", `{"id": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, s = doJSON(r, http.MethodPut, "/acquisition/electrodes", `{"ids": ["C3", "C4"]}`)
	assert.Equal(t, []string{"C3", "C4"}, s.SelectedElectrodes)
	assert.Equal(t, map[string]float64{"C3": 0, "C4": 0}, s.QualityByElectrode)

	_, s = doJSON(r, http.MethodDelete, "/acquisition/electrodes", "")
	assert.Empty(t, s.SelectedElectrodes)

	_, s = doJSON(r, http.MethodGet, "/acquisition/state", "")
	assert.Equal(t, uint64(3), s.Version)
}

func TestHandlerSessionAndLive(t *testing.T) {
	live := &fakeLive{}
	store := newTestStore(&fakeDialer{}, &fakeBackend{id: "77"})
	defer store.Close()
	r := newTestRouter(store, live)

	rec, _ := doJSON(r, http.MethodGet, "/acquisition/live", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, s := doJSON(r, http.MethodPost, "/acquisition/start", "")
	assert.True(t, s.IsRunning)
	assert.Equal(t, "77", s.SessionID)

	rec, _ = doJSON(r, http.MethodGet, "/acquisition/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fatigue_score":21`)
	assert.Equal(t, []string{"77"}, live.asked)

	_, s = doJSON(r, http.MethodPost, "/acquisition/stop", "")
	assert.False(t, s.IsRunning)
	assert.Empty(t, s.SessionID)
}

func TestHandlerLiveForLocalSession(t *testing.T) {
	live := &fakeLive{}
	store := newTestStore(&fakeDialer{}, nil)
	defer store.Close()
	r := newTestRouter(store, live)

	doJSON(r, http.MethodPost, "/acquisition/start", "")
	rec, _ := doJSON(r, http.MethodGet, "/acquisition/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, live.asked)
}

func TestHandlerElectrodes(t *testing.T) {
	r := newTestRouter(newTestStore(nil, nil), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/electrodes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data []Electrode `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, len(UltracortexMarkIV))
	assert.Equal(t, "Fp1", env.Data[0].ID)
}

func TestHandlerStopAnswersBeforeBackend(t *testing.T) {
	b := &fakeBackend{id: "sess-9", stopGate: make(chan struct{}), stopEnter: make(chan struct{})}
	store := newTestStore(&fakeDialer{}, b)
	defer store.Close()
	r := newTestRouter(store, nil)
	doJSON(r, http.MethodPost, "/acquisition/start", "")

	answered := make(chan State, 1)
	go func() {
		rec, s := doJSON(r, http.MethodPost, "/acquisition/stop", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		answered <- s
	}()

	select {
	case s := <-answered:
		assert.False(t, s.IsRunning)
		assert.Empty(t, s.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("stop waited on the backend")
	}

	<-b.stopEnter
	assert.Equal(t, []string{"sess-9"}, b.stopped())
	close(b.stopGate)
}
