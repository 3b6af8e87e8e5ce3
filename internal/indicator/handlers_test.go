package indicator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTech(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodPost, "/tech", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func risingBarsJSON(n int) string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"close": %d}`, 100+i)
	}
	buf.WriteString("]")
	return buf.String()
}

// growthBarsJSON compounds 1% per bar; unlike a linear ramp this keeps the
// MACD line rising ahead of its signal line, so the histogram stays positive.
func growthBarsJSON(n int) string {
	var buf bytes.Buffer
	buf.WriteString("[")
	price := 100.0
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"close": %.4f}`, price)
		price *= 1.01
	}
	buf.WriteString("]")
	return buf.String()
}

func TestTechHandler_FullSeries(t *testing.T) {
	rec := postTech(t, `{"ticker": "cdr", "bars": `+growthBarsJSON(60)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp techResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "CDR", resp.Ticker)
	require.NotNil(t, resp.RSI)
	assert.Equal(t, 100.0, *resp.RSI, "monotone rising closes saturate RSI")
	require.NotNil(t, resp.SMAShort)
	require.NotNil(t, resp.SMALong)
	require.NotNil(t, resp.MACD)

	// Rising series, price above both averages: RSI>70 contributes sell,
	// everything else buy.
	require.NotNil(t, resp.Signal)
	assert.Equal(t, SignalPositive, resp.Signal.Label)
	assert.Equal(t, 3, resp.Signal.BuyCount)
	assert.Equal(t, 1, resp.Signal.SellCount)
}

func TestTechHandler_ShortSeriesOmitsIndicators(t *testing.T) {
	rec := postTech(t, `{"ticker": "CDR", "bars": `+risingBarsJSON(10)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	assert.Equal(t, "null", string(raw["rsi"]))
	assert.Equal(t, "null", string(raw["sma_long"]))
	assert.Equal(t, "null", string(raw["macd"]))
	assert.Equal(t, "null", string(raw["signal"]), "no indicators means no verdict")
}

func TestTechHandler_CustomSMAPeriods(t *testing.T) {
	rec := postTech(t, `{"ticker": "CDR", "bars": `+risingBarsJSON(10)+`, "sma_short": 3, "sma_long": 5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp techResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.SMAShort)
	assert.Equal(t, 108.0, *resp.SMAShort, "mean of the last 3 closes 107..109")
	require.NotNil(t, resp.SMALong)
	assert.Equal(t, 107.0, *resp.SMALong)
}

func TestTechHandler_BadRequests(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, postTech(t, `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, postTech(t, `{"ticker": "CDR", "bars": []}`).Code)
}
