package session

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctagard/gdbmi/internal/stream"
	"github.com/ctagard/gdbmi/pkg/errors"
	"github.com/ctagard/gdbmi/pkg/types"
)

func newTestManager(t *testing.T, max int) *Manager {
	t.Helper()
	m := NewManager(max, 30*time.Minute, stream.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(m.Close)
	return m
}

// TestManager_CreateSession verifies session creation.
func TestManager_CreateSession(t *testing.T) {
	m := newTestManager(t, 10)

	s, err := m.CreateSession("inferior")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "inferior", s.Name)
	assert.False(t, s.CreatedAt.IsZero())

	info := s.Info()
	assert.Equal(t, s.ID, info.SessionID)
	assert.Equal(t, types.ExecStateUnknown, info.State)
	assert.Zero(t, info.Lines)
}

// TestManager_MaxSessions verifies max session limit enforcement.
func TestManager_MaxSessions(t *testing.T) {
	m := newTestManager(t, 2)

	_, err := m.CreateSession("a")
	require.NoError(t, err)
	_, err = m.CreateSession("b")
	require.NoError(t, err)

	_, err = m.CreateSession("c")
	assert.True(t, errors.HasCode(err, errors.CodeSessionLimitReached))
}

// TestManager_GetAndClose verifies lookup and removal.
func TestManager_GetAndClose(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.CreateSession("")
	require.NoError(t, err)

	got, err := m.GetSession(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.CloseSession(s.ID))
	_, err = m.GetSession(s.ID)
	assert.True(t, errors.HasCode(err, errors.CodeSessionNotFound))
	assert.True(t, errors.HasCode(m.CloseSession(s.ID), errors.CodeSessionNotFound))
}

// TestManager_ListSessions verifies sessions are listed oldest first.
func TestManager_ListSessions(t *testing.T) {
	m := newTestManager(t, 10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		m.now = func() time.Time { return at }
		s, err := m.CreateSession("")
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	var got []string
	for _, s := range m.ListSessions() {
		got = append(got, s.ID)
	}
	assert.Equal(t, ids, got)
}

// TestManager_CleanupIdleSessions verifies idle sessions expire and active ones survive.
func TestManager_CleanupIdleSessions(t *testing.T) {
	m := newTestManager(t, 10)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	idle, err := m.CreateSession("idle")
	require.NoError(t, err)
	active, err := m.CreateSession("active")
	require.NoError(t, err)

	active.Feed("^done\n", start.Add(20*time.Minute))

	m.now = func() time.Time { return start.Add(40 * time.Minute) }
	m.cleanupExpiredSessions()

	_, err = m.GetSession(idle.ID)
	assert.Error(t, err)
	_, err = m.GetSession(active.ID)
	assert.NoError(t, err)
}

// TestSession_FeedPartialLines verifies lines split across feeds are joined.
func TestSession_FeedPartialLines(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.CreateSession("")
	require.NoError(t, err)
	now := m.Now()

	entries := s.Feed(`=thread-group-started,id="i1",p`, now)
	assert.Empty(t, entries)

	entries = s.Feed("id=\"7\"\n(gdb)\n^do", now)
	require.Len(t, entries, 1)
	assert.NoError(t, entries[0].Err)

	entries = s.Flush(now)
	require.Len(t, entries, 1)
	assert.Equal(t, "^do", entries[0].Raw)
	assert.Error(t, entries[0].Err)
	assert.Nil(t, s.Flush(now))

	info := s.Info()
	assert.Equal(t, 3, info.Lines)
	assert.Equal(t, 1, info.Errors)
	assert.Equal(t, "7", s.State().ThreadGroups[0].PID)
}

// TestSession_TracksInferior verifies a full all-stop transcript is folded into state.
func TestSession_TracksInferior(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.CreateSession("")
	require.NoError(t, err)
	now := m.Now()

	s.Feed(`=thread-group-added,id="i1"
=cmd-param-changed,param="print pretty",value="on"
=thread-group-started,id="i1",pid="4242"
=thread-created,id="1",group-id="i1"
=thread-created,id="2",group-id="i1"
*running,thread-id="all"
`, now)

	st := s.State()
	assert.Equal(t, types.ExecStateRunning, st.State)
	assert.Equal(t, []types.ThreadGroupInfo{{ID: "i1", PID: "4242", Started: true}}, st.ThreadGroups)
	assert.Equal(t, []types.ThreadInfo{
		{ID: "1", ThreadGroupID: "i1", Running: true},
		{ID: "2", ThreadGroupID: "i1", Running: true},
	}, st.Threads)
	assert.Equal(t, map[string]string{"print pretty": "on"}, st.Params)

	s.Feed(`*stopped,reason="breakpoint-hit",bkptno="1",frame={func="main",file="a.c",line="5"},thread-id="2",stopped-threads="all"
`, now)
	st = s.State()
	assert.Equal(t, types.ExecStateStopped, st.State)
	assert.Equal(t, "2", st.SelectedThread)
	require.NotNil(t, st.LastStop)
	assert.Equal(t, types.StopInfo{
		Reason: "breakpoint-hit", ThreadID: "2", AllThreads: true, BreakpointNumber: "1",
		Function: "main", File: "a.c", Line: "5",
	}, *st.LastStop)
	for _, th := range st.Threads {
		assert.False(t, th.Running, th.ID)
	}

	s.Feed(`^error,msg="Cannot access memory at address 0x0"
=thread-exited,id="2",group-id="i1"
=thread-group-exited,id="i1",exit-code="0"
`, now)
	st = s.State()
	assert.Equal(t, types.ExecStateExited, st.State)
	assert.Equal(t, "Cannot access memory at address 0x0", st.LastError)
	assert.Empty(t, st.Threads)
	assert.Empty(t, st.SelectedThread)
	assert.Equal(t, []types.ThreadGroupInfo{{ID: "i1", ExitCode: "0"}}, st.ThreadGroups)
}

// TestTracker_NonStop verifies explicit stopped-thread sets only stop those threads.
func TestTracker_NonStop(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.CreateSession("")
	require.NoError(t, err)

	s.Feed(`=thread-created,id="1",group-id="i1"
=thread-created,id="2",group-id="i1"
*running,thread-id="1"
*running,thread-id="2"
*stopped,reason="signal-received",signal-name="SIGSEGV",thread-id="2",stopped-threads=["2"]
=thread-selected,id="1"
`, m.Now())

	st := s.State()
	assert.Equal(t, []types.ThreadInfo{
		{ID: "1", ThreadGroupID: "i1", Running: true},
		{ID: "2", ThreadGroupID: "i1", Running: false},
	}, st.Threads)
	assert.Equal(t, "SIGSEGV", st.LastStop.SignalName)
	assert.False(t, st.LastStop.AllThreads)
	assert.Equal(t, "1", st.SelectedThread)
}

// TestSession_StateIsACopy verifies snapshots do not alias tracker state.
func TestSession_StateIsACopy(t *testing.T) {
	m := newTestManager(t, 10)
	s, err := m.CreateSession("")
	require.NoError(t, err)
	s.Feed("=thread-created,id=\"1\",group-id=\"i1\"\n=thread-group-removed,id=\"i9\"\n", m.Now())

	st := s.State()
	st.Threads[0].Running = true
	assert.False(t, s.State().Threads[0].Running)
}
