package indicator

import "math"

// Signal labels returned by Aggregate.
const (
	SignalPositive = "positive"
	SignalNegative = "negative"
	SignalNeutral  = "neutral"
)

// SignalInputs are the indicator values feeding one aggregation. Nil fields
// are omitted from scoring.
type SignalInputs struct {
	RSI          *float64
	SMAShort     *float64
	SMALong      *float64
	MACD         *MACDResult
	CurrentPrice float64
}

// SignalSummary is the aggregated buy/sell verdict. BuyCount and SellCount
// are the rounded contribution tallies exposed for display.
type SignalSummary struct {
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	BuyCount  int     `json:"buy_count"`
	SellCount int     `json:"sell_count"`
}

// Aggregate folds the available indicators into a bounded signal score.
// The second return is false when no indicator contributed.
func Aggregate(in SignalInputs) (SignalSummary, bool) {
	var buy, sell float64

	if in.RSI != nil {
		switch {
		case *in.RSI < 30:
			buy++
		case *in.RSI > 70:
			sell++
		default:
			buy += 0.5
			sell += 0.5
		}
	}

	for _, sma := range []*float64{in.SMAShort, in.SMALong} {
		if sma == nil {
			continue
		}
		if in.CurrentPrice > *sma {
			buy++
		} else {
			sell++
		}
	}

	if in.MACD != nil {
		if in.MACD.Histogram > 0 {
			buy++
		} else {
			sell++
		}
	}

	total := buy + sell
	if total == 0 {
		return SignalSummary{}, false
	}

	score := buy / total
	label := SignalNeutral
	switch {
	case score > 0.6:
		label = SignalPositive
	case score < 0.4:
		label = SignalNegative
	}

	return SignalSummary{
		Label:     label,
		Score:     score,
		BuyCount:  int(math.Round(buy)),
		SellCount: int(math.Round(sell)),
	}, true
}
