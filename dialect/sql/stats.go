package sql

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/osql/dialect"
)

// Statement kinds counted by StatsDriver, read from the leading keyword.
const (
	KindSelect = "SELECT"
	KindInsert = "INSERT"
	KindUpdate = "UPDATE"
	KindDelete = "DELETE"
	KindOther  = "OTHER"
)

// statementKind returns the kind of a rendered statement.
func statementKind(query string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	switch kind := strings.ToUpper(word); kind {
	case KindSelect, KindInsert, KindUpdate, KindDelete:
		return kind
	default:
		return KindOther
	}
}

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the number of statements run through Query.
	TotalQueries atomic.Int64
	// TotalExecs is the number of statements run through Exec.
	TotalExecs atomic.Int64
	// TotalDuration is the time spent in the backend, in nanoseconds.
	TotalDuration atomic.Int64
	// MaxDuration is the longest single statement, in nanoseconds.
	MaxDuration atomic.Int64
	// SlowQueries is the number of statements over the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the number of failed statements.
	Errors atomic.Int64

	mu    sync.Mutex
	kinds map[string]int64
}

func (s *QueryStats) record(kind string, d time.Duration, failed, slow, isQuery bool) {
	if isQuery {
		s.TotalQueries.Add(1)
	} else {
		s.TotalExecs.Add(1)
	}
	s.TotalDuration.Add(int64(d))
	for {
		cur := s.MaxDuration.Load()
		if int64(d) <= cur || s.MaxDuration.CompareAndSwap(cur, int64(d)) {
			break
		}
	}
	if failed {
		s.Errors.Add(1)
	}
	if slow {
		s.SlowQueries.Add(1)
	}
	s.mu.Lock()
	if s.kinds == nil {
		s.kinds = make(map[string]int64)
	}
	s.kinds[kind]++
	s.mu.Unlock()
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	s.mu.Lock()
	kinds := maps.Clone(s.kinds)
	s.mu.Unlock()
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		MaxDuration:   time.Duration(s.MaxDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
		ByKind:        kinds,
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.MaxDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
	s.mu.Lock()
	s.kinds = nil
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time snapshot of statement statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	SlowQueries   int64
	Errors        int64
	// ByKind counts statements per kind (KindSelect, KindInsert, ...).
	ByKind map[string]int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d avg=%s max=%s slow=%d errors=%d select=%d insert=%d update=%d delete=%d",
		s.TotalQueries, s.TotalExecs, s.AvgQueryDuration(), s.MaxDuration, s.SlowQueries, s.Errors,
		s.ByKind[KindSelect], s.ByKind[KindInsert], s.ByKind[KindUpdate], s.ByKind[KindDelete],
	)
}

// SlowQueryHook is called with every statement over the slow threshold.
// Statements carry their values inline, so the text is all there is.
type SlowQueryHook func(ctx context.Context, query string, duration time.Duration)

// StatsDriver wraps a dialect.Driver with statement statistics. Drivers
// stack: a StatsDriver may wrap a DebugDriver and the other way around.
type StatsDriver struct {
	dialect.Driver
	stats         *QueryStats
	slowThreshold atomic.Int64
	slowHook      SlowQueryHook
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration over which a statement is slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold.Store(int64(d))
	}
}

// WithSlowQueryHook sets the callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to logger, or to the default logger
// when it is nil.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected",
			"kind", statementKind(query),
			"duration", duration,
			"query", query,
		)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
//	drv := sql.NewStatsDriver(sql.OpenDB("postgres", db),
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	fmt.Println(drv.QueryStats().Stats())
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver: drv,
		stats:  &QueryStats{},
	}
	s.slowThreshold.Store(int64(100 * time.Millisecond))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the collected statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	return time.Duration(d.slowThreshold.Load())
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.slowThreshold.Store(int64(threshold))
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, time.Since(start), err, true)
	return err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, time.Since(start), err, false)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, duration time.Duration, err error, isQuery bool) {
	slow := duration > d.SlowThreshold()
	d.stats.record(statementKind(query), duration, err != nil, slow, isQuery)
	if slow && d.slowHook != nil {
		d.slowHook(ctx, query, duration)
	}
}

// DebugDriver logs every statement it passes on.
type DebugDriver struct {
	dialect.Driver
	logger *slog.Logger
	level  slog.Level
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger. The default is slog.Default().
func DebugWithLogger(logger *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.logger = logger
	}
}

// DebugWithLevel sets the level statements are logged at. The default is
// slog.LevelDebug.
func DebugWithLevel(level slog.Level) DebugOption {
	return func(d *DebugDriver) {
		d.level = level
	}
}

// NewDebugDriver wraps a Driver with statement logging.
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		logger: slog.Default(),
		level:  slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.log(ctx, "query", query, time.Since(start), err)
	return err
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.log(ctx, "exec", query, time.Since(start), err)
	return err
}

func (d *DebugDriver) log(ctx context.Context, op, query string, duration time.Duration, err error) {
	if !d.logger.Enabled(ctx, d.level) {
		return
	}
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("kind", statementKind(query)),
		slog.String("query", query),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	d.logger.LogAttrs(ctx, d.level, "statement", attrs...)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)
