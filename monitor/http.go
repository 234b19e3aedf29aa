package monitor

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// routes builds the monitoring HTTP surface on gorilla/mux, adopted from
// kiarash-naderi-matching-engine's internal/handlers/http.go and
// tedmax100-system_design_interview_lab/ch8_leader_board, both of which
// route matching-engine-adjacent HTTP APIs through mux.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/book/{symbol}", s.handleBook).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws/trades", s.handleTradeStream).Methods(http.MethodGet)
	r.HandleFunc("/ws/book/{symbol}", s.handleBookStream).Methods(http.MethodGet)
	return r
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	writeJSON(w, s.snapshot(symbol))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.eng.Stats())
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	connId := uuid.New().String()
	defer conn.Close()

	sub := s.tradeHub.Subscribe(32)
	defer s.tradeHub.Unsubscribe(sub)

	logf("trade stream subscriber %s connected", connId)
	defer logf("trade stream subscriber %s disconnected", connId)

	for trade := range sub.ch {
		if err := conn.WriteJSON(trade); err != nil {
			return
		}
	}
}

func (s *Server) handleBookStream(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	connId := uuid.New().String()
	defer conn.Close()

	sub := s.bookHub.Subscribe(32)
	defer s.bookHub.Unsubscribe(sub)

	logf("book stream subscriber %s connected for %s", connId, symbol)
	defer logf("book stream subscriber %s disconnected", connId)

	// Send an initial snapshot so the client has a baseline before the
	// next book-changing event arrives.
	if err := conn.WriteJSON(s.snapshot(symbol)); err != nil {
		return
	}

	for view := range sub.ch {
		if view.Symbol != symbol {
			continue
		}
		if err := conn.WriteJSON(view); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
