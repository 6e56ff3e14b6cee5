package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"sealchat/internal/domain"
)

// maxBodyBytes bounds every request body the relay accepts.
const maxBodyBytes = 1 << 20

type latestResponse struct {
	Number domain.MessageNumber `json:"message_number"`
	Exists bool                 `json:"exists"`
}

type ackRequest struct {
	Count int `json:"count"`
}

// NewHandler exposes t over HTTP with access logging.
func NewHandler(t domain.Transport, log zerolog.Logger) http.Handler {
	s := &server{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.register)
	mux.HandleFunc("GET /prekey/{username}", s.prekey)
	mux.HandleFunc("POST /msg/{username}", s.send)
	mux.HandleFunc("GET /msg/{username}", s.fetch)
	mux.HandleFunc("POST /msg/{username}/ack", s.ack)
	mux.HandleFunc("GET /conversations/{a}/{b}", s.history)
	mux.HandleFunc("GET /conversations/{a}/{b}/latest", s.latest)

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.NewHandler(log.With().Str("component", "relay http").Logger())(h)
	return h
}

type server struct {
	t domain.Transport
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	var b domain.PreKeyBundle
	if !decodeBody(w, r, &b) {
		return
	}
	if err := s.t.RegisterPreKeyBundle(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *server) prekey(w http.ResponseWriter, r *http.Request) {
	b, err := s.t.FetchPreKeyBundle(r.Context(), domain.Username(r.PathValue("username")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, b)
}

func (s *server) send(w http.ResponseWriter, r *http.Request) {
	var m domain.Message
	if !decodeBody(w, r, &m) {
		return
	}
	if m.To != domain.Username(r.PathValue("username")) {
		http.Error(w, "recipient does not match path", http.StatusBadRequest)
		return
	}
	if err := s.t.SendMessage(r.Context(), m); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *server) fetch(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	msgs, err := s.t.FetchMessages(r.Context(), domain.Username(r.PathValue("username")), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, nonNil(msgs))
}

func (s *server) ack(w http.ResponseWriter, r *http.Request) {
	var req ackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.t.AckMessages(r.Context(), domain.Username(r.PathValue("username")), req.Count); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *server) history(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.t.FetchHistory(
		r.Context(),
		domain.Username(r.PathValue("a")),
		domain.Username(r.PathValue("b")),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, nonNil(msgs))
}

func (s *server) latest(w http.ResponseWriter, r *http.Request) {
	n, ok, err := s.t.LatestMessageNumber(
		r.Context(),
		domain.Username(r.PathValue("a")),
		domain.Username(r.PathValue("b")),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, latestResponse{Number: n, Exists: ok})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(out); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownUser):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSequenceConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidUsername):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("Relay request failed")
	}
	http.Error(w, err.Error(), status)
}

func nonNil(msgs []domain.Message) []domain.Message {
	if msgs == nil {
		return []domain.Message{}
	}
	return msgs
}
