package alert

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
)

type createAlertRequest struct {
	Ticker    string  `json:"ticker"`
	Condition string  `json:"condition"`
	Target    float64 `json:"target"`
}

type apiResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RegisterHandlers wires the alert CRUD endpoints onto mux.
func RegisterHandlers(mux *http.ServeMux, ev *Evaluator) {
	mux.HandleFunc("GET /alerts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, apiResponse{Message: "alerts", Data: ev.List()})
	})

	mux.HandleFunc("POST /alerts", func(w http.ResponseWriter, r *http.Request) {
		var req createAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		a, err := ev.Add(req.Ticker, Condition(req.Condition), req.Target)
		if err != nil {
			logging.Log.Warn("alert creation rejected", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, apiResponse{Message: "alert created", Data: a})
	})

	mux.HandleFunc("DELETE /alerts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid alert id", http.StatusBadRequest)
			return
		}
		if err := ev.Delete(id); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Message: "alert deleted"})
	})

	mux.HandleFunc("POST /alerts/{id}/reset", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid alert id", http.StatusBadRequest)
			return
		}
		if err := ev.Reset(id); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, apiResponse{Message: "alert reset"})
	})
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Log.Error("encoding response failed", zap.Error(err))
	}
}
