package crawl

import (
	"sync"

	"github.com/fwojciec/docvec"
)

// Phase is the lifecycle stage of a crawl run.
type Phase int

// Crawl phases, in order.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseDraining
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// State is the frontier and accumulator of a single crawl run. It holds the
// exact set of canonical URLs seen, a FIFO queue of URLs not yet issued,
// the count of issued requests and the documents produced so far.
//
// The visited set never grows beyond the budget, so at most budget requests
// are ever issued. State is safe for concurrent use.
type State struct {
	mu     sync.Mutex
	budget int
	seen   map[string]struct{}
	queue  []string
	issued int
	docs   []*docvec.Document
	phase  Phase
}

// NewState returns an idle State that admits at most budget URLs.
func NewState(budget int) *State {
	return &State{
		budget: budget,
		seen:   make(map[string]struct{}),
	}
}

// Enqueue adds a canonical URL to the queue. It returns false when the URL
// was already seen or the budget is spent.
func (s *State) Enqueue(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[url]; ok {
		return false
	}
	if len(s.seen) >= s.budget {
		return false
	}
	s.seen[url] = struct{}{}
	s.queue = append(s.queue, url)
	return true
}

// Next dequeues the next URL and counts it as an issued request. It returns
// false when the queue is empty or the budget is spent.
func (s *State) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 || s.issued >= s.budget {
		return "", false
	}
	url := s.queue[0]
	s.queue[0] = ""
	s.queue = s.queue[1:]
	s.issued++
	return url, true
}

// Seen reports whether the canonical URL has been enqueued.
func (s *State) Seen(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[url]
	return ok
}

// Issued returns the number of requests handed out by Next.
func (s *State) Issued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}

// Visited returns the size of the visited set.
func (s *State) Visited() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Exhausted reports whether no further URL will ever be issued: either the
// queue is empty or the budget is spent.
func (s *State) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) == 0 || s.issued >= s.budget
}

// Append records a produced document.
func (s *State) Append(doc *docvec.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
}

// Documents returns a copy of the produced documents.
func (s *State) Documents() []*docvec.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*docvec.Document(nil), s.docs...)
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *State) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p > s.phase {
		s.phase = p
	}
}
