package acquisition

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qualityKeys(s State) []string {
	keys := make([]string, 0, len(s.QualityByElectrode))
	for k := range s.QualityByElectrode {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCopy(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestQualityKeysFollowSelection(t *testing.T) {
	s := newTestStore(nil, nil)
	ids := []string{"Fp1", "fp1", "Cz", "O2", "C3", "c3", "Pz"}
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		switch rng.IntN(3) {
		case 0:
			s.ToggleElectrode(ids[rng.IntN(len(ids))])
		case 1:
			n := rng.IntN(len(ids))
			pick := make([]string, 0, n)
			for j := 0; j < n; j++ {
				pick = append(pick, ids[rng.IntN(len(ids))])
			}
			s.SetElectrodes(pick)
		default:
			s.ClearElectrodes()
		}
		snap := s.Snapshot()
		require.Equal(t, sortedCopy(snap.SelectedElectrodes), qualityKeys(snap), "step %d", i)
	}
}

func TestToggleElectrode(t *testing.T) {
	s := newTestStore(nil, nil)
	var rec recorder
	s.Subscribe(rec.listen)

	assert.True(t, s.ToggleElectrode("Fp1"))
	snap := s.Snapshot()
	assert.Equal(t, []string{"Fp1"}, snap.SelectedElectrodes)
	assert.Equal(t, "Fp1", snap.LastClickedElectrode)
	assert.Equal(t, map[string]float64{"Fp1": 0}, snap.QualityByElectrode)

	assert.False(t, s.ToggleElectrode("Fp1"))
	snap = s.Snapshot()
	assert.Empty(t, snap.SelectedElectrodes)
	assert.Empty(t, snap.QualityByElectrode)
	assert.Equal(t, "Fp1", snap.LastClickedElectrode)

	assert.False(t, s.ToggleElectrode("  "))
	assert.Len(t, rec.all(), 2)
}

func TestListenersReceiveVersionsInOrder(t *testing.T) {
	s := newTestStore(nil, nil)
	var rec recorder
	s.Subscribe(rec.listen)

	s.ToggleElectrode("O1")
	s.SetElectrodes([]string{"O1", "O2"})
	s.ClearElectrodes()

	states := rec.all()
	require.Len(t, states, 3)
	for i, st := range states {
		assert.Equal(t, uint64(i+1), st.Version)
	}
	assert.Equal(t, []string{"O1", "O2"}, states[1].SelectedElectrodes)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(nil, nil)
	s.SetElectrodes([]string{"Cz"})
	snap := s.Snapshot()
	snap.SelectedElectrodes[0] = "Pz"
	snap.QualityByElectrode["Pz"] = 12
	assert.Equal(t, []string{"Cz"}, s.Snapshot().SelectedElectrodes)
	assert.Equal(t, map[string]float64{"Cz": 0}, s.Snapshot().QualityByElectrode)
}

func TestStartWithoutBackendUsesLocalID(t *testing.T) {
	d := &fakeDialer{}
	s := newTestStore(d, nil)

	s.Start(context.Background())
	id, running := s.Sessions().Running()
	assert.True(t, running)
	assert.Equal(t, "local-1700000000000", id)
	assert.True(t, strings.HasPrefix(id, LocalSessionPrefix))

	require.Eventually(t, func() bool {
		return s.Snapshot().StreamStatus == StatusOpen
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, d.dials())
}

func TestStartUsesBackendSession(t *testing.T) {
	d := &fakeDialer{}
	b := &fakeBackend{id: "sess-42"}
	s := newTestStore(d, b)

	s.Start(context.Background())
	snap := s.Snapshot()
	assert.Equal(t, "sess-42", snap.SessionID)
	assert.True(t, snap.IsRunning)
	assert.Equal(t, 1, b.startCount())
}

func TestStartFallsBackOnBackendFailure(t *testing.T) {
	for name, b := range map[string]*fakeBackend{
		"error":    {startErr: assert.AnError},
		"empty id": {id: ""},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(&fakeDialer{}, b)
			s.Start(context.Background())
			snap := s.Snapshot()
			assert.True(t, snap.IsRunning)
			assert.Equal(t, "local-1700000000000", snap.SessionID)
			s.Close()
		})
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	d := &fakeDialer{}
	b := &fakeBackend{id: "sess-1"}
	s := newTestStore(d, b)
	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return s.Snapshot().StreamStatus == StatusOpen
	}, time.Second, 5*time.Millisecond)
	version := s.Snapshot().Version

	s.Start(context.Background())
	assert.Equal(t, 1, b.startCount())
	assert.Equal(t, version, s.Snapshot().Version)
	assert.Equal(t, 1, d.dials())
}

func TestStopClearsStateBeforeBackendAnswers(t *testing.T) {
	d := &fakeDialer{}
	b := &fakeBackend{id: "sess-7", stopGate: make(chan struct{}), stopEnter: make(chan struct{})}
	s := newTestStore(d, b)
	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return s.Snapshot().StreamStatus == StatusOpen
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop(context.Background())
		close(done)
	}()
	<-b.stopEnter

	snap := s.Snapshot()
	assert.False(t, snap.IsRunning)
	assert.Empty(t, snap.SessionID)
	assert.Equal(t, StatusIdle, snap.StreamStatus)
	assert.False(t, s.Engine().Connected())
	assert.True(t, d.conn(0).isClosed())

	close(b.stopGate)
	<-done
	assert.Equal(t, []string{"sess-7"}, b.stopped())
}

func TestStopNotifiesBackendForLocalSessions(t *testing.T) {
	b := &fakeBackend{startErr: assert.AnError}
	s := newTestStore(&fakeDialer{}, b)
	s.Start(context.Background())
	s.Stop(context.Background())
	assert.Equal(t, []string{"local-1700000000000"}, b.stopped())
}

func TestStopWithoutSessionIsNoop(t *testing.T) {
	b := &fakeBackend{}
	s := newTestStore(&fakeDialer{}, b)
	s.Stop(context.Background())
	assert.Empty(t, b.stopped())
	assert.Equal(t, uint64(0), s.Snapshot().Version)
}

func TestSelectionSurvivesSessions(t *testing.T) {
	s := newTestStore(&fakeDialer{}, nil)
	s.SetElectrodes([]string{"C3", "C4"})
	s.Start(context.Background())
	s.Stop(context.Background())
	assert.Equal(t, []string{"C3", "C4"}, s.Snapshot().SelectedElectrodes)
}

func TestStopDetachedOutlivesCallerContext(t *testing.T) {
	b := &fakeBackend{id: "sess-3", stopGate: make(chan struct{}), stopEnter: make(chan struct{})}
	s := newTestStore(&fakeDialer{}, b)
	s.Start(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := s.StopDetached(ctx)
	snap := s.Snapshot()
	assert.False(t, snap.IsRunning)
	assert.Empty(t, snap.SessionID)

	<-b.stopEnter
	cancel()
	select {
	case <-done:
		t.Fatal("notification ended with the caller context")
	case <-time.After(50 * time.Millisecond):
	}
	close(b.stopGate)
	<-done
	assert.Equal(t, []string{"sess-3"}, b.stopped())
}

func TestStopDetachedTimesOut(t *testing.T) {
	b := &fakeBackend{id: "sess-4", stopGate: make(chan struct{})}
	s := NewStore(Options{Dialer: &fakeDialer{}, Backend: b, NotifyTimeout: 20 * time.Millisecond})
	defer s.Close()
	s.Start(context.Background())

	select {
	case <-s.StopDetached(context.Background()):
	case <-time.After(2 * time.Second):
		t.Fatal("notification not bounded by the timeout")
	}
}

func TestStopDetachedWithoutSession(t *testing.T) {
	b := &fakeBackend{}
	s := newTestStore(&fakeDialer{}, b)
	<-s.StopDetached(context.Background())
	assert.Empty(t, b.stopped())
}
