package indicator

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
)

// Default SMA windows when the caller does not pick their own.
const (
	defaultSMAShort = 20
	defaultSMALong  = 50
)

// techRequest carries the OHLC history for one instrument. The history is
// supplied by the caller; the daemon keeps no candle store of its own.
type techRequest struct {
	Ticker       string  `json:"ticker"`
	Bars         []Bar   `json:"bars"`
	SMAShort     int     `json:"sma_short"`
	SMALong      int     `json:"sma_long"`
	CurrentPrice float64 `json:"current_price"`
}

type techResponse struct {
	Ticker   string         `json:"ticker"`
	RSI      *float64       `json:"rsi"`
	SMAShort *float64       `json:"sma_short"`
	SMALong  *float64       `json:"sma_long"`
	MACD     *MACDResult    `json:"macd"`
	Signal   *SignalSummary `json:"signal"`
}

// RegisterHandlers wires the technical-analysis endpoint onto mux.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /tech", func(w http.ResponseWriter, r *http.Request) {
		var req techRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Bars) == 0 {
			http.Error(w, "bars are required", http.StatusBadRequest)
			return
		}
		if req.SMAShort <= 0 {
			req.SMAShort = defaultSMAShort
		}
		if req.SMALong <= 0 {
			req.SMALong = defaultSMALong
		}
		if req.CurrentPrice <= 0 {
			req.CurrentPrice = req.Bars[len(req.Bars)-1].Close
		}

		resp := evaluate(req)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logging.Log.Error("encoding response failed", zap.Error(err))
		}
	})
}

func evaluate(req techRequest) techResponse {
	closes := Closes(req.Bars)
	resp := techResponse{Ticker: strings.ToUpper(req.Ticker)}

	if v, ok := RSI(closes, 14); ok {
		resp.RSI = &v
	}
	if v, ok := SMA(closes, req.SMAShort); ok {
		resp.SMAShort = &v
	}
	if v, ok := SMA(closes, req.SMALong); ok {
		resp.SMALong = &v
	}
	if v, ok := MACD(closes, 12, 26, 9); ok {
		resp.MACD = &v
	}

	summary, ok := Aggregate(SignalInputs{
		RSI:          resp.RSI,
		SMAShort:     resp.SMAShort,
		SMALong:      resp.SMALong,
		MACD:         resp.MACD,
		CurrentPrice: req.CurrentPrice,
	})
	if ok {
		resp.Signal = &summary
	}
	return resp
}
