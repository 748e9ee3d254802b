package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/docvec"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// relaunched. Chrome's resident memory only grows during long crawls.
const DefaultMaxPages = 75

// instance is one launched browser. Once retired it stops taking new pages
// and shuts down when the last open page is released.
type instance struct {
	browser *rod.Browser
	pid     int
	stop    func() error

	served  int
	open    int
	retired bool
	once    sync.Once
	stopErr error
}

func (in *instance) shutdown() error {
	in.once.Do(func() { in.stopErr = in.stop() })
	return in.stopErr
}

// browserManager owns the headless browser processes and rotates to a fresh
// one every maxPages pages. It is safe for concurrent use.
type browserManager struct {
	mu       sync.Mutex
	current  *instance
	draining map[*instance]struct{}
	maxPages int
	closed   bool
	launch   func() (*instance, error)
}

func newBrowserManager(maxPages int) (*browserManager, error) {
	return newManagerWith(maxPages, launchChrome)
}

func newManagerWith(maxPages int, launch func() (*instance, error)) (*browserManager, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	in, err := launch()
	if err != nil {
		return nil, err
	}
	return &browserManager{
		current:  in,
		draining: make(map[*instance]struct{}),
		maxPages: maxPages,
		launch:   launch,
	}, nil
}

// acquire returns the current browser and a release func that must be
// called when the caller's page is closed. When the current browser has
// served maxPages pages a fresh one is launched; the old one keeps running
// until its open pages are released. If the launch fails the old browser
// keeps serving.
func (m *browserManager) acquire() (*rod.Browser, func(), error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, nil, docvec.Errorf(docvec.EINVALID, "fetcher closed")
	}
	var idle *instance
	if m.current.served >= m.maxPages {
		if next, err := m.launch(); err == nil {
			idle = m.retire(m.current)
			m.current = next
		}
	}
	in := m.current
	in.served++
	in.open++
	m.mu.Unlock()

	if idle != nil {
		_ = idle.shutdown()
	}
	var once sync.Once
	release := func() {
		once.Do(func() { m.release(in) })
	}
	return in.browser, release, nil
}

// retire marks in as retired and returns it when no page is open on it, so
// the caller can stop it after unlocking. Must be called with mu held.
func (m *browserManager) retire(in *instance) *instance {
	in.retired = true
	if in.open == 0 {
		return in
	}
	m.draining[in] = struct{}{}
	return nil
}

func (m *browserManager) release(in *instance) {
	m.mu.Lock()
	in.open--
	done := in.retired && in.open == 0
	if done {
		delete(m.draining, in)
	}
	m.mu.Unlock()

	if done {
		_ = in.shutdown()
	}
}

// pid returns the current launcher's process ID, 0 once closed.
func (m *browserManager) pid() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}
	return m.current.pid
}

// close shuts every browser down, including ones still draining. It is safe
// to call more than once.
func (m *browserManager) close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	all := []*instance{m.current}
	for in := range m.draining {
		all = append(all, in)
	}
	m.draining = nil
	m.mu.Unlock()

	var first error
	for _, in := range all {
		if err := in.shutdown(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// launchChrome starts a browser with flags that keep background pages
// rendering.
func launchChrome() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{
		browser: browser,
		pid:     l.PID(),
		stop: func() error {
			err := browser.Close()
			l.Kill()
			return err
		},
	}, nil
}
