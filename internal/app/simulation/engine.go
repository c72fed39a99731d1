package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"incumbent/internal/app/ports"
	"incumbent/internal/domain/calendar"
	"incumbent/internal/domain/economy"
)

var ErrInvalidInterval = errors.New("tick interval must be positive")

type Options struct {
	Reports  ports.ReportRepository
	Tx       ports.TxManager
	Notifier ports.Notifier
	Metrics  ports.TickMetrics
	Logger   *slog.Logger
	Now      func() time.Time
}

// Status describes the tick loop, independent of the world lock.
type Status struct {
	Running   bool              `json:"running"`
	Ticks     uint64            `json:"ticks"`
	Date      calendar.Date     `json:"date"`
	LastError *economy.SimError `json:"last_error,omitempty"`
	StoppedBy string            `json:"stopped_by,omitempty"`
	Interval  time.Duration     `json:"interval"`
}

// Engine owns the world and serialises every access to it. The tick loop
// and commands share one lock; observers receive copies.
type Engine struct {
	mu    sync.Mutex
	world *economy.World

	reports  ports.ReportRepository
	tx       ports.TxManager
	notifier ports.Notifier
	metrics  ports.TickMetrics
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time

	statusMu sync.RWMutex
	status   Status
}

func NewEngine(w *economy.World, opts Options) *Engine {
	e := &Engine{
		world:    w,
		reports:  opts.Reports,
		tx:       opts.Tx,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		tracer:   otel.Tracer("incumbent/simulation"),
		now:      opts.Now,
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.metrics == nil {
		e.metrics = nopMetrics{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.status.Date = w.Date()
	return e
}

// Do runs fn while holding the world lock.
func (e *Engine) Do(ctx context.Context, fn func(w *economy.World) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.world)
}

func (e *Engine) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// Run advances one day per interval until ctx is done or a tick fails
// fatally. Recoverable errors are reported and the loop continues.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	e.setRunning(true, interval, "")
	e.logger.Info("simulation started", "date", e.Status().Date.String(), "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.setRunning(false, interval, "context")
			e.logger.Info("simulation stopped", "date", e.Status().Date.String())
			return nil
		case <-ticker.C:
			if _, err := e.Step(ctx); err != nil {
				e.setRunning(false, interval, err.Error())
				e.logger.Error("simulation stopped on fatal error", "error", err)
				return err
			}
		}
	}
}

// Step advances the world by one day, then persists and publishes what the
// day produced. It returns the first fatal error of the tick.
func (e *Engine) Step(ctx context.Context) (economy.DayResult, error) {
	ctx, span := e.tracer.Start(ctx, "simulation.day")
	defer span.End()

	// The month span opens around settlement and closes once the summary
	// has been published.
	var monthCtx context.Context
	var monthSpan trace.Span
	e.mu.Lock()
	res := e.world.AdvanceDayWith(func(settle func()) {
		monthCtx, monthSpan = e.tracer.Start(ctx, "simulation.month")
		settle()
	})
	e.mu.Unlock()

	span.SetAttributes(
		attribute.String("simulation.date", res.Date.String()),
		attribute.Int("simulation.population", res.Snapshot.Population),
		attribute.Int("simulation.businesses", res.Snapshot.Businesses),
	)
	e.metrics.RecordDay(res.Births, res.Deaths)
	e.logger.Debug("day advanced", "date", res.Date.String(), "population", res.Snapshot.Population, "births", res.Births, "deaths", res.Deaths)

	for _, err := range res.Errors {
		e.report(ctx, err)
	}
	if err := e.persist(ctx, res); err != nil {
		span.RecordError(err)
		e.logger.Error("persist reports", "date", res.Date.String(), "error", err)
	}

	e.notifier.Notify(ctx, ports.Notification{Kind: ports.NotifyNewDay, Payload: res.Date.String()})
	e.notifier.Notify(ctx, ports.Notification{Kind: ports.NotifyDaySnapshot, Payload: res.Snapshot})
	if monthSpan != nil {
		e.publishMonth(monthCtx, monthSpan, res.Month)
	}

	e.statusMu.Lock()
	e.status.Ticks++
	e.status.Date = res.Date
	e.statusMu.Unlock()

	if fatal := res.Fatal(); fatal != nil {
		span.RecordError(fatal)
		span.SetStatus(codes.Error, fatal.Error())
		return res, fatal
	}
	return res, nil
}

func (e *Engine) publishMonth(ctx context.Context, span trace.Span, summary *economy.MonthSummary) {
	defer span.End()
	if summary == nil {
		span.SetStatus(codes.Error, "month not settled")
		return
	}
	m := *summary
	span.SetAttributes(
		attribute.String("simulation.date", m.Date.String()),
		attribute.Int("simulation.businesses_opened", m.Opened),
		attribute.Int("simulation.businesses_closed", m.Closed),
	)
	e.metrics.RecordMonth(m.Opened, m.Closed)
	e.logger.Info("month settled",
		"date", m.Date.String(),
		"average_income", m.AverageIncome.String(),
		"person_tax", m.PersonTax.String(),
		"business_tax", m.BusinessTax.String(),
		"businesses", m.Businesses,
		"opened", m.Opened,
		"closed", m.Closed,
		"government", m.Government.String(),
	)
	e.notifier.Notify(ctx, ports.Notification{Kind: ports.NotifyMonthSummary, Payload: m})
}

func (e *Engine) persist(ctx context.Context, res economy.DayResult) error {
	if e.reports == nil {
		return nil
	}
	at := e.now().UTC()
	save := func(ctx context.Context) error {
		if err := e.reports.SaveDay(ctx, ports.DayReport{Date: res.Date, Snapshot: res.Snapshot, RecordedAt: at}); err != nil {
			return err
		}
		if res.Month != nil {
			return e.reports.SaveMonth(ctx, ports.MonthReport{Date: res.Date, Summary: *res.Month, RecordedAt: at})
		}
		return nil
	}
	if e.tx == nil {
		return save(ctx)
	}
	return e.tx.RunInTx(ctx, save)
}

func (e *Engine) report(ctx context.Context, err error) {
	se := asSimError(err)
	switch se.Severity {
	case economy.SeverityWarning:
		e.logger.Warn("simulation warning", "error", se.Message)
	default:
		e.logger.Error("simulation "+se.Severity.String(), "error", se.Message)
	}
	e.metrics.RecordError(se.Severity)
	e.notifier.Notify(ctx, ports.Notification{Kind: ports.NotifyError, Payload: se})

	e.statusMu.Lock()
	e.status.LastError = se
	e.statusMu.Unlock()
}

func asSimError(err error) *economy.SimError {
	var se *economy.SimError
	if errors.As(err, &se) {
		return se
	}
	return &economy.SimError{Severity: economy.SeverityFatal, Message: err.Error(), Err: err}
}

func (e *Engine) setRunning(running bool, interval time.Duration, stoppedBy string) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.Running = running
	e.status.Interval = interval
	e.status.StoppedBy = stoppedBy
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ports.Notification) {}

type nopMetrics struct{}

func (nopMetrics) RecordDay(int, int) {}

func (nopMetrics) RecordMonth(int, int) {}

func (nopMetrics) RecordError(economy.Severity) {}
