// Package indicator computes standard technical indicators over OHLC
// series. All functions are pure and recompute from scratch; "not enough
// data" is reported through the ok return, never an error.
package indicator

import (
	"math"
	"time"
)

// Bar is a single candlestick. Close is the only required field; callers
// with close-only series leave the rest zero.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high,omitempty"`
	Low    float64   `json:"low,omitempty"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume,omitempty"`
}

// Closes projects a bar series onto its close prices.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// RSI computes the Relative Strength Index with Wilder smoothing. Requires
// at least period+1 closes. When the smoothed average loss is zero the
// index saturates at 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs)), true
}

// SMA is the simple mean of the last period closes.
func SMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return round2(sum / float64(period)), true
}

// MACDResult holds the MACD line, signal line and histogram at the most
// recent bar, rounded to 2 decimal places.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes the Moving Average Convergence/Divergence over closes.
// Requires at least slow+signal closes (35 for the classic 12/26/9) so the
// signal EMA has enough MACD-line points to seed.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, bool) {
	if fast <= 0 || slow <= fast || signal <= 0 {
		return MACDResult{}, false
	}
	if len(closes) < slow+signal {
		return MACDResult{}, false
	}

	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	// fastEMA starts slow-fast positions earlier; align on the slow series.
	offset := slow - fast
	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := emaSeries(macdLine, signal)

	m := round2(macdLine[len(macdLine)-1])
	s := round2(signalLine[len(signalLine)-1])
	return MACDResult{
		MACD:      m,
		Signal:    s,
		Histogram: round2(m - s),
	}, true
}

// emaSeries returns the exponential moving average sequence, seeded with the
// simple mean of the first n values. Output length is len(values)-n+1.
func emaSeries(values []float64, n int) []float64 {
	k := 2.0 / (float64(n) + 1)
	out := make([]float64, 0, len(values)-n+1)

	var seed float64
	for _, v := range values[:n] {
		seed += v
	}
	seed /= float64(n)
	out = append(out, seed)

	prev := seed
	for _, v := range values[n:] {
		prev = v*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

// Snapshot bundles the indicators evaluated for one instrument. Nil fields
// mean the series was too short for that indicator.
type Snapshot struct {
	RSI  *float64    `json:"rsi"`
	SMA  *float64    `json:"sma"`
	MACD *MACDResult `json:"macd"`
}

// Compute evaluates RSI(14), SMA(smaPeriod) and MACD(12,26,9) over bars.
func Compute(bars []Bar, smaPeriod int) Snapshot {
	closes := Closes(bars)
	var snap Snapshot
	if v, ok := RSI(closes, 14); ok {
		snap.RSI = &v
	}
	if v, ok := SMA(closes, smaPeriod); ok {
		snap.SMA = &v
	}
	if v, ok := MACD(closes, 12, 26, 9); ok {
		snap.MACD = &v
	}
	return snap
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
