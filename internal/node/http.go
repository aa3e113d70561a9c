package node

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"okinoko-faction_arena/contract"
)

// Handler serves the node API:
//
//	POST /call        body: Call, returns Result or {"error": "<code>: <msg>"}
//	GET  /receipts    ?limit=n, newest first
//	GET  /metrics     Prometheus
//
// /call executes as whatever sender the body names, admin and game
// addresses included. Bind it to a local interface only.
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/call", n.handleCall)
	mux.HandleFunc("/receipts", n.handleReceipts)
	mux.Handle("/metrics", n.metrics.Handler())
	return mux
}

func (n *Node) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var c Call
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := n.Call(r.Context(), c)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": contract.AbortMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (n *Node) handleReceipts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > 1000 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = v
	}
	rs, err := n.journal.Receipts(limit)
	if err != nil {
		n.log.Error("read receipts", zap.Error(err))
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
