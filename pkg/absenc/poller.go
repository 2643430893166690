package absenc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var ErrPollerRunning = errors.New("poller is already running")

// maxPollErrors is how many sample errors a [Poller] tolerates before stopping itself.
const maxPollErrors = 50

// Reading is a snapshot of one tracker taken by a [Poller].
type Reading struct {
	Name      string
	Angle     float64
	Unwrapped float64
	// Relative is Unwrapped minus the value recorded by the last [Poller.Zero].
	Relative float64
	Turns    int32
	Time     time.Time
}

func (r Reading) String() string {
	return fmt.Sprintf("%s: %.3f° (unwrapped %.3f°, turns %d)", r.Name, r.Angle, r.Unwrapped, r.Turns)
}

// ReadingCallback is invoked from the polling goroutine after every sample.
type ReadingCallback func(Reading)

type polled struct {
	name    string
	tracker *Tracker
	start   float64
	last    Reading
}

// Poller samples a set of trackers on a fixed interval from a single goroutine and
// lets any number of other goroutines read the results.
type Poller struct {
	Interval time.Duration

	mu       sync.RWMutex
	trackers []*polled
	callback ReadingCallback
	log      zerolog.Logger

	done    *atomic.Bool
	running *atomic.Bool
	err     []error
	errMu   sync.Mutex
}

type PollerOption func(*Poller)

func WithCallback(cb ReadingCallback) PollerOption {
	return func(p *Poller) {
		p.callback = cb
	}
}

func WithLogger(log zerolog.Logger) PollerOption {
	return func(p *Poller) {
		p.log = log
	}
}

func NewPoller(interval time.Duration, opts ...PollerOption) *Poller {
	p := &Poller{
		Interval: interval,
		log:      zerolog.Nop(),
		done:     &atomic.Bool{},
		running:  &atomic.Bool{},
		err:      make([]error, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Add registers a tracker under name. Must be called before Run.
func (p *Poller) Add(name string, t *Tracker) {
	p.mu.Lock()
	p.trackers = append(p.trackers, &polled{name: name, tracker: t, last: Reading{Name: name}})
	p.mu.Unlock()
}

func (p *Poller) addErr(err error) {
	if err == nil {
		return
	}
	p.errMu.Lock()
	p.err = append(p.err, err)
	if len(p.err) >= maxPollErrors {
		p.done.Store(true)
	}
	p.errMu.Unlock()
}

// Err joins every error seen while polling.
func (p *Poller) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if len(p.err) == 0 {
		return nil
	}
	return fmt.Errorf("poll errors: %w", errors.Join(p.err...))
}

// Stop ends the current Run after its in-flight tick.
func (p *Poller) Stop() {
	p.done.Store(true)
}

func (p *Poller) IsDone() bool {
	return p.done.Load()
}

func (p *Poller) IsRunning() bool {
	return p.running.Load()
}

// Tick samples every tracker once. Run calls it on each interval.
func (p *Poller) Tick() {
	p.mu.Lock()
	readings := make([]Reading, 0, len(p.trackers))
	now := time.Now()
	for _, pt := range p.trackers {
		if err := pt.tracker.Sample(); err != nil {
			p.addErr(fmt.Errorf("%s: %w", pt.name, err))
			p.log.Warn().Err(err).Str("encoder", pt.name).Msg("sample failed")
			continue
		}
		pt.last = pt.reading(now)
		readings = append(readings, pt.last)
	}
	p.mu.Unlock()

	if p.callback == nil {
		return
	}
	for _, r := range readings {
		p.callback(r)
	}
}

func (pt *polled) reading(now time.Time) Reading {
	t := pt.tracker
	unwrapped := t.UnwrappedAngle()
	return Reading{
		Name:      pt.name,
		Angle:     t.Angle(),
		Unwrapped: unwrapped,
		Relative:  unwrapped - pt.start,
		Turns:     t.TurnCount(),
		Time:      now,
	}
}

// Len is the number of registered trackers.
func (p *Poller) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.trackers)
}

// Initialize prepares the source of every tracker.
func (p *Poller) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.trackers) == 0 {
		return errors.New("no encoders to poll")
	}
	for _, pt := range p.trackers {
		if err := pt.tracker.Initialize(); err != nil {
			return fmt.Errorf("%s: %w", pt.name, err)
		}
	}
	return nil
}

// Run initializes every tracker then samples them until ctx is cancelled, Stop is
// called or too many samples failed. It blocks and returns the errors of this run.
// A Poller can be run again once Run returned; each run starts with no errors.
func (p *Poller) Run(ctx context.Context) error {
	if p.Interval <= 0 {
		return fmt.Errorf("invalid poll interval: %s", p.Interval)
	}

	if !p.running.CompareAndSwap(false, true) {
		return ErrPollerRunning
	}
	defer p.running.Store(false)

	p.errMu.Lock()
	p.err = p.err[:0]
	p.errMu.Unlock()
	p.done.Store(false)

	if err := p.Initialize(); err != nil {
		return err
	}

	p.log.Debug().Int("encoders", p.Len()).Dur("interval", p.Interval).Msg("polling")

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for !p.done.Load() {
		select {
		case <-ctx.Done():
			p.done.Store(true)
			return p.Err()
		case <-ticker.C:
			p.Tick()
		}
	}

	return p.Err()
}

// Snapshot returns the latest reading of every tracker, in registration order.
func (p *Poller) Snapshot() []Reading {
	p.mu.RLock()
	out := make([]Reading, 0, len(p.trackers))
	for _, pt := range p.trackers {
		out = append(out, pt.last)
	}
	p.mu.RUnlock()
	return out
}

// Zero records the current unwrapped angle of the named tracker as its start value.
func (p *Poller) Zero(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pt := range p.trackers {
		if pt.name != name {
			continue
		}
		pt.start = pt.tracker.UnwrappedAngle()
		pt.last.Relative = pt.last.Unwrapped - pt.start
		return nil
	}
	return fmt.Errorf("unknown encoder %q", name)
}

// Reset resets the named tracker and clears its start value.
func (p *Poller) Reset(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pt := range p.trackers {
		if pt.name != name {
			continue
		}
		pt.tracker.Reset()
		pt.start = 0
		pt.last = Reading{Name: name}
		return nil
	}
	return fmt.Errorf("unknown encoder %q", name)
}
