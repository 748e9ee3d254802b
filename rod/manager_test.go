package rod

import (
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/docvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher hands out instances without starting Chrome and records
// which ones were stopped.
type fakeLauncher struct {
	mu       sync.Mutex
	launched []*instance
	stopped  map[int]bool
	fail     bool
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{stopped: make(map[int]bool)}
}

func (l *fakeLauncher) launch() (*instance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, errors.New("chrome not found")
	}
	pid := len(l.launched) + 1
	in := &instance{pid: pid, stop: func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.stopped[pid] = true
		return nil
	}}
	l.launched = append(l.launched, in)
	return in, nil
}

func (l *fakeLauncher) isStopped(pid int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped[pid]
}

func TestBrowserManager_Rotation(t *testing.T) {
	t.Parallel()

	t.Run("keeps a retired browser alive while its pages are open", func(t *testing.T) {
		t.Parallel()

		l := newFakeLauncher()
		m, err := newManagerWith(2, l.launch)
		require.NoError(t, err)

		_, releaseA, err := m.acquire()
		require.NoError(t, err)
		_, releaseB, err := m.acquire()
		require.NoError(t, err)

		_, releaseC, err := m.acquire()
		require.NoError(t, err)
		assert.Equal(t, 2, m.pid())
		assert.False(t, l.isStopped(1), "pages still open on the first browser")

		releaseA()
		assert.False(t, l.isStopped(1))
		releaseB()
		assert.True(t, l.isStopped(1))

		releaseC()
		assert.False(t, l.isStopped(2), "current browser stays up")
	})

	t.Run("stops an idle browser as soon as it is retired", func(t *testing.T) {
		t.Parallel()

		l := newFakeLauncher()
		m, err := newManagerWith(1, l.launch)
		require.NoError(t, err)

		_, release, err := m.acquire()
		require.NoError(t, err)
		release()

		_, release, err = m.acquire()
		require.NoError(t, err)
		defer release()

		assert.True(t, l.isStopped(1))
		assert.Equal(t, 2, m.pid())
	})

	t.Run("release is idempotent", func(t *testing.T) {
		t.Parallel()

		l := newFakeLauncher()
		m, err := newManagerWith(1, l.launch)
		require.NoError(t, err)

		_, releaseA, err := m.acquire()
		require.NoError(t, err)
		_, releaseB, err := m.acquire()
		require.NoError(t, err)

		releaseA()
		releaseA()
		assert.True(t, l.isStopped(1))
		assert.Equal(t, 1, m.current.open)
		releaseB()
	})

	t.Run("keeps serving from the old browser when relaunch fails", func(t *testing.T) {
		t.Parallel()

		l := newFakeLauncher()
		m, err := newManagerWith(1, l.launch)
		require.NoError(t, err)

		_, release, err := m.acquire()
		require.NoError(t, err)
		release()

		l.mu.Lock()
		l.fail = true
		l.mu.Unlock()

		_, release, err = m.acquire()
		require.NoError(t, err)
		release()

		assert.Equal(t, 1, m.pid())
		assert.False(t, l.isStopped(1))
	})
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	l := newFakeLauncher()
	m, err := newManagerWith(1, l.launch)
	require.NoError(t, err)

	_, releaseOld, err := m.acquire()
	require.NoError(t, err)
	_, releaseNew, err := m.acquire()
	require.NoError(t, err)

	require.NoError(t, m.close())
	require.NoError(t, m.close())
	assert.True(t, l.isStopped(1), "draining browser is stopped on close")
	assert.True(t, l.isStopped(2))
	assert.Zero(t, m.pid())

	releaseOld()
	releaseNew()

	_, _, err = m.acquire()
	assert.Equal(t, docvec.EINVALID, docvec.ErrorCode(err))
}
