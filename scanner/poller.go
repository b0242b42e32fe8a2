// Package scanner runs the background scan loop: on every cycle it lists
// access points on the selected adapter, parses and sorts them, resolves
// the associated BSSID and hands the result to the consumer.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"wifiscan/history"
	"wifiscan/view"
	"wifiscan/wifi"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 3 * time.Second

var (
	ErrNoAdapter  = errors.New("no usable Wi-Fi adapter selected")
	ErrCyclePanic = errors.New("scan cycle panicked")
)

// Scanner returns the raw terse listing of visible access points.
type Scanner interface {
	WifiList(ctx context.Context, interfaceName string) (string, error)
}

// Associator returns the BSSID the adapter is associated with.
type Associator interface {
	ActiveBSSID(ctx context.Context, interfaceName string) (string, error)
}

// Snapshot is the complete result of one scan cycle.
type Snapshot struct {
	Records     []wifi.Record `json:"records"`
	ActiveBSSID string        `json:"activeBssid,omitempty"`
	Adapter     string        `json:"adapter"`
	ObservedAt  time.Time     `json:"observedAt"`
	Rejected    int           `json:"rejected,omitempty"`
}

// Poller runs scan cycles on a background goroutine. Cycles are separated
// by a full interval of sleep, so work time adds to the period.
type Poller struct {
	scanner    Scanner
	associator Associator
	logger     *zap.Logger
	metrics    *Metrics
	clock      Clock
	history    *history.Store

	adapter  atomic.Pointer[string]
	interval atomic.Int64

	// mu guards the lifecycle fields and serializes emission against Stop.
	mu       sync.Mutex
	running  bool
	stopping bool
	done     chan struct{}
	wg       sync.WaitGroup

	out chan Snapshot
}

// Option configures a Poller.
type Option func(*Poller)

// WithAssociator sets the source for the associated BSSID. Without one
// snapshots carry an empty ActiveBSSID.
func WithAssociator(a Associator) Option {
	return func(p *Poller) { p.associator = a }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Poller) { p.metrics = m }
}

// WithClock overrides the snapshot timestamps and the sleep between cycles.
func WithClock(c Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithHistory records every successful scan into h, including scans whose
// snapshot is later replaced on the Snapshots channel before delivery.
func WithHistory(h *history.Store) Option {
	return func(p *Poller) { p.history = h }
}

func WithAdapter(name string) Option {
	return func(p *Poller) { p.SetAdapter(name) }
}

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.SetInterval(d) }
}

// New returns an idle Poller.
func New(scanner Scanner, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		scanner: scanner,
		logger:  logger,
		clock:   realClock{},
		out:     make(chan Snapshot, 1),
	}
	p.SetAdapter("")
	p.SetInterval(DefaultInterval)
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(nil)
	}
	return p
}

// SetAdapter changes the adapter scanned from the next cycle on.
func (p *Poller) SetAdapter(name string) {
	p.adapter.Store(&name)
}

func (p *Poller) Adapter() string {
	return *p.adapter.Load()
}

// SetInterval changes the sleep between cycles from the next wait on.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultInterval
	}
	p.interval.Store(int64(d))
}

func (p *Poller) Interval() time.Duration {
	return time.Duration(p.interval.Load())
}

// Snapshots delivers completed scans. The channel holds only the latest
// undelivered snapshot; older ones are dropped so the loop never blocks.
func (p *Poller) Snapshots() <-chan Snapshot {
	return p.out
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start launches the loop. It is a no-op when already running.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stopping = false
	p.done = make(chan struct{})

	p.logger.Info("wifi scanner starting",
		zap.String("adapter", p.Adapter()),
		zap.Duration("interval", p.Interval()),
	)

	p.wg.Add(1)
	go p.run(p.done)
}

// Stop asks the loop to exit and blocks until the current cycle, including
// any external command already running, has finished. Nothing is emitted
// once Stop has been called.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running || p.stopping {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.stopping = true
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.logger.Info("wifi scanner stopped")
}

func (p *Poller) run(done <-chan struct{}) {
	defer p.wg.Done()

	for {
		select {
		case <-done:
			return
		default:
		}

		p.cycle()

		// The timer is armed only once the cycle has returned.
		timer := p.clock.Timer(p.Interval())
		select {
		case <-done:
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// cycle runs one scan. The external calls are not cancelled by Stop.
func (p *Poller) cycle() {
	adapter := p.Adapter()
	if !wifi.ValidAdapter(adapter) {
		p.metrics.Skipped.Inc()
		p.logger.Debug("skipping scan cycle, no usable adapter", zap.String("adapter", adapter))
		return
	}

	snap, err := p.scan(context.Background(), adapter)
	if err != nil {
		p.metrics.Failures.Inc()
		p.logger.Warn("scan cycle failed", zap.String("adapter", adapter), zap.Error(err))
		return
	}
	p.emit(snap)
}

// ScanOnce runs a single cycle synchronously on the current adapter and
// returns its snapshot without delivering it to Snapshots. The scan is
// still recorded into the history store.
func (p *Poller) ScanOnce(ctx context.Context) (Snapshot, error) {
	adapter := p.Adapter()
	if !wifi.ValidAdapter(adapter) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrNoAdapter, adapter)
	}
	return p.scan(ctx, adapter)
}

func (p *Poller) scan(ctx context.Context, adapter string) (snap Snapshot, err error) {
	start := time.Now()
	defer func() {
		p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			snap, err = Snapshot{}, fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
	}()

	output, err := p.scanner.WifiList(ctx, adapter)
	if err != nil {
		return Snapshot{}, err
	}

	observedAt := p.clock.Now()
	records, rejected := wifi.ParseScan(output, observedAt)
	view.SortBySignal(records)
	if p.history != nil {
		p.history.RecordSnapshot(records)
	}

	p.metrics.Cycles.Inc()
	p.metrics.RejectedLines.Add(float64(rejected))
	p.metrics.Networks.Set(float64(len(records)))
	p.logger.Debug("scan cycle complete",
		zap.String("adapter", adapter),
		zap.Int("networks", len(records)),
		zap.Int("rejected", rejected),
	)

	return Snapshot{
		Records:     records,
		ActiveBSSID: p.resolveActive(ctx, adapter),
		Adapter:     adapter,
		ObservedAt:  observedAt,
		Rejected:    rejected,
	}, nil
}

// resolveActive is best effort: any failure means no associated BSSID.
func (p *Poller) resolveActive(ctx context.Context, adapter string) (bssid string) {
	if p.associator == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("association lookup panicked", zap.Any("panic", r))
			bssid = ""
		}
	}()

	bssid, err := p.associator.ActiveBSSID(ctx, adapter)
	if err != nil {
		p.logger.Debug("no associated BSSID", zap.String("adapter", adapter), zap.Error(err))
		return ""
	}
	return bssid
}

func (p *Poller) emit(snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopping {
		p.logger.Debug("dropping snapshot, scanner is stopping")
		return
	}
	select {
	case p.out <- snap:
		return
	default:
	}
	// Replace the undelivered snapshot with the newer one.
	select {
	case <-p.out:
	default:
	}
	select {
	case p.out <- snap:
	default:
	}
}
