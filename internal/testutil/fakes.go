package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
)

// Recorder is a scripted recording bot
type Recorder struct {
	mu       sync.Mutex
	requests []bot.Request

	// RunFunc produces the result; defaults to returning Output
	RunFunc func(ctx context.Context, req bot.Request) (*bot.Result, error)
	Output  string
}

// NewRecorder creates a recorder that prints output and exits cleanly
func NewRecorder(output string) *Recorder {
	return &Recorder{Output: output}
}

// Run records the request and returns the scripted result
func (r *Recorder) Run(ctx context.Context, req bot.Request) (*bot.Result, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	fn := r.RunFunc
	r.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	now := time.Now()
	return &bot.Result{Output: r.Output, Started: now, Finished: now}, nil
}

// Requests returns the requests seen so far
func (r *Recorder) Requests() []bot.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bot.Request(nil), r.requests...)
}

// BlockingRun returns a RunFunc that waits for release or ctx, and the release func
func BlockingRun(output string) (func(ctx context.Context, req bot.Request) (*bot.Result, error), func()) {
	release := make(chan struct{})
	var once sync.Once
	run := func(ctx context.Context, _ bot.Request) (*bot.Result, error) {
		select {
		case <-release:
			return &bot.Result{Output: output}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return run, func() { once.Do(func() { close(release) }) }
}

// Notifier captures sent messages
type Notifier struct {
	mu   sync.Mutex
	sent []notify.Message

	// Err, when set, fails every send
	Err error
}

// Send records msg or fails with Err
func (n *Notifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, msg)
	return nil
}

// SetErr changes the send failure
func (n *Notifier) SetErr(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Err = err
}

// Sent returns the delivered messages
func (n *Notifier) Sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

// SentOfKind returns the delivered messages of one kind
func (n *Notifier) SentOfKind(kind notify.Kind) []notify.Message {
	out := make([]notify.Message, 0)
	for _, m := range n.Sent() {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Store is an artifact store that remembers what it was asked to keep
type Store struct {
	mu      sync.Mutex
	objects map[string]string

	Err error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{objects: make(map[string]string)}
}

// Store records the object and returns its name as the stored path
func (s *Store) Store(_ context.Context, objectName, localPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.objects[objectName] = localPath
	return objectName, nil
}

// URL returns a fake download URL
func (s *Store) URL(_ context.Context, objectName string) (string, error) {
	return "https://files.test/" + objectName, nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Objects returns stored object names mapped to their source paths
func (s *Store) Objects() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}

// Probe is a readiness probe with a fixed answer
type Probe struct {
	mu     sync.Mutex
	status bot.Status
	calls  int
}

// NewProbe creates a probe reporting ready
func NewProbe(ready bool, message string) *Probe {
	return &Probe{status: bot.Status{Ready: ready, Message: message}}
}

// Check returns the configured status
func (p *Probe) Check(context.Context) bot.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.status
}

// Set changes the reported status
func (p *Probe) Set(ready bool, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = bot.Status{Ready: ready, Message: message}
}

// Calls returns how many checks were made
func (p *Probe) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Clock is a manually advanced clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock stopped at now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
