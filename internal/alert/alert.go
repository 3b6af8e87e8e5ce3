package alert

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Condition string

const (
	ConditionAbove Condition = "above"
	ConditionBelow Condition = "below"
)

// Alert is a user-defined price threshold. ID is the creation timestamp in
// unix millis and serves as the stable identity.
type Alert struct {
	ID        int64     `json:"id"`
	Ticker    string    `json:"ticker"`
	Condition Condition `json:"condition"`
	Target    float64   `json:"target"`
	Triggered bool      `json:"triggered"`
}

func New(ticker string, condition Condition, target float64) (Alert, error) {
	a := Alert{
		ID:        time.Now().UnixMilli(),
		Ticker:    strings.ToUpper(strings.TrimSpace(ticker)),
		Condition: condition,
		Target:    target,
	}
	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (a Alert) Validate() error {
	if a.Ticker == "" {
		return fmt.Errorf("alert has no ticker")
	}
	if a.Condition != ConditionAbove && a.Condition != ConditionBelow {
		return fmt.Errorf("alert %s: unknown condition %q", a.Ticker, a.Condition)
	}
	if a.Target <= 0 {
		return fmt.Errorf("alert %s: target must be positive", a.Ticker)
	}
	return nil
}

func (a Alert) matches(price float64) bool {
	if a.Condition == ConditionAbove {
		return price >= a.Target
	}
	return price <= a.Target
}

// Message renders the notification text, e.g. "CDR ≥ 100,00 · kurs: 101,50".
func (a Alert) Message(price float64) string {
	op := "≥"
	if a.Condition == ConditionBelow {
		op = "≤"
	}
	return fmt.Sprintf("%s %s %s · kurs: %s",
		a.Ticker, op, formatPrice(a.Target), formatPrice(price))
}

// formatPrice renders with the Polish decimal comma.
func formatPrice(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// Notification describes one fired alert, handed to every registered
// Notifier exactly once per firing.
type Notification struct {
	AlertID int64     `json:"alertId"`
	Ticker  string    `json:"ticker"`
	Message string    `json:"message"`
	Price   float64   `json:"price"`
	At      time.Time `json:"at"`
}

// Notifier delivers a fired-alert notification. Implementations must not
// block the evaluation loop for long; delivery is best-effort.
type Notifier interface {
	Notify(n Notification)
}
