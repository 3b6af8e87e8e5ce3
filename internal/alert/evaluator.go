package alert

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
	"github.com/mzurek/gpwpulse/internal/metrics"
)

// Store is the durable home of the alert list. SaveAlerts replaces the full
// list in one call; there is no partial persistence.
type Store interface {
	LoadAlerts() ([]Alert, error)
	SaveAlerts(alerts []Alert) error
}

// Evaluator matches live prices against the alert list. A triggered alert
// stays quiet until the user resets it; the persisted flag survives
// restarts, and the per-process fired set guards the same session.
type Evaluator struct {
	mu        sync.Mutex
	store     Store
	notifiers []Notifier
	alerts    []Alert
	fired     map[int64]bool
}

func NewEvaluator(store Store, notifiers ...Notifier) (*Evaluator, error) {
	alerts, err := store.LoadAlerts()
	if err != nil {
		return nil, fmt.Errorf("loading alerts: %w", err)
	}
	return &Evaluator{
		store:     store,
		notifiers: notifiers,
		alerts:    alerts,
		fired:     make(map[int64]bool),
	}, nil
}

// Evaluate processes one batch of price updates. Alerts whose ticker has no
// price are skipped for this tick. Malformed alerts are skipped, never
// removed. When at least one alert fired, the full list is persisted in the
// same step; a persistence failure is returned but the in-memory state
// stands, so the loop keeps running.
func (e *Evaluator) Evaluate(prices map[string]float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firedAny bool
	for i := range e.alerts {
		a := &e.alerts[i]
		if a.Validate() != nil {
			continue
		}
		price, ok := prices[a.Ticker]
		if !ok {
			continue
		}
		if a.Triggered || e.fired[a.ID] {
			continue
		}
		if !a.matches(price) {
			continue
		}

		a.Triggered = true
		e.fired[a.ID] = true
		firedAny = true
		metrics.AlertsFiredTotal.WithLabelValues(a.Ticker).Inc()

		n := Notification{
			AlertID: a.ID,
			Ticker:  a.Ticker,
			Message: a.Message(price),
			Price:   price,
			At:      time.Now(),
		}
		for _, notifier := range e.notifiers {
			notifier.Notify(n)
		}
		logging.Log.Info("alert fired",
			zap.String("ticker", a.Ticker),
			zap.Float64("price", price),
			zap.Float64("target", a.Target),
		)
	}

	if !firedAny {
		return nil
	}
	if err := e.store.SaveAlerts(e.alerts); err != nil {
		logging.Log.Error("persisting alerts failed", zap.Error(err))
		return fmt.Errorf("persisting alerts: %w", err)
	}
	return nil
}

// Add validates and appends a new alert, persisting the updated list.
func (e *Evaluator) Add(ticker string, condition Condition, target float64) (Alert, error) {
	a, err := New(ticker, condition, target)
	if err != nil {
		return Alert{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = append(e.alerts, a)
	if err := e.store.SaveAlerts(e.alerts); err != nil {
		e.alerts = e.alerts[:len(e.alerts)-1]
		return Alert{}, fmt.Errorf("persisting alerts: %w", err)
	}
	return a, nil
}

// Delete removes an alert by id.
func (e *Evaluator) Delete(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, a := range e.alerts {
		if a.ID == id {
			e.alerts = append(e.alerts[:i], e.alerts[i+1:]...)
			delete(e.fired, id)
			return e.store.SaveAlerts(e.alerts)
		}
	}
	return fmt.Errorf("alert %d not found", id)
}

// Reset re-arms a fired alert and restores its eligibility to notify within
// the current session.
func (e *Evaluator) Reset(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.alerts {
		if e.alerts[i].ID == id {
			e.alerts[i].Triggered = false
			delete(e.fired, id)
			return e.store.SaveAlerts(e.alerts)
		}
	}
	return fmt.Errorf("alert %d not found", id)
}

// List returns a copy of the current alert list.
func (e *Evaluator) List() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}
