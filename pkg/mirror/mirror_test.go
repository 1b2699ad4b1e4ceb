package mirror

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   int
	Name string
}

func (r rec) RecordID() int { return r.ID }

func TestMirrorListAndCache(t *testing.T) {
	m := New[rec](time.Minute)
	assert.True(t, m.Status().Empty)

	m.SetItems([]rec{{1, "a"}, {2, "b"}})
	assert.Equal(t, Status{Empty: false, Count: 2}, m.Status())

	got, ok := m.Cached(2)
	require.True(t, ok)
	assert.Equal(t, "b", got.Name)
	_, ok = m.Cached(3)
	assert.False(t, ok)
}

func TestMirrorAddReplaceRemove(t *testing.T) {
	m := New[rec](time.Minute)
	m.SetItems([]rec{{1, "a"}})
	m.Add(rec{2, "b"}, true)
	m.Add(rec{3, "c"}, false)
	assert.Equal(t, []rec{{2, "b"}, {1, "a"}, {3, "c"}}, m.Items())

	m.SetCurrent(rec{1, "a"})
	m.Replace(rec{1, "a2"})
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "a2", cur.Name)
	assert.Equal(t, rec{1, "a2"}, m.Items()[1])

	m.Remove(1)
	_, ok = m.Current()
	assert.False(t, ok)
	_, ok = m.Cached(1)
	assert.False(t, ok)
	assert.Equal(t, []rec{{2, "b"}, {3, "c"}}, m.Items())
}

func TestMirrorReplaceKeepsOtherCurrent(t *testing.T) {
	m := New[rec](time.Minute)
	m.SetCurrent(rec{5, "x"})
	m.Replace(rec{6, "y"})
	cur, _ := m.Current()
	assert.Equal(t, 5, cur.ID)
	assert.Empty(t, m.Items())
}

func TestMirrorStatusTracksRequests(t *testing.T) {
	m := New[rec](time.Minute)
	m.Begin()
	assert.True(t, m.Status().Loading)
	m.End("boom")
	st := m.Status()
	assert.False(t, st.Loading)
	assert.Equal(t, "boom", st.Error)

	m.Begin()
	assert.Empty(t, m.Status().Error)
	m.End("")
}

func TestMirrorCacheExpires(t *testing.T) {
	m := New[rec](20 * time.Millisecond)
	m.SetCurrent(rec{9, "z"})
	assert.Eventually(t, func() bool {
		_, ok := m.Cached(9)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
