package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Catson28/financial-ledger-system/internal/usecase"
)

const (
	// IdempotencyKeyHeader carries the client-chosen idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayHeader marks responses served from the idempotency store.
	ReplayHeader = "X-Idempotency-Replay"

	idempotencyTTL = 24 * time.Hour
)

// storedResponse is the envelope persisted per idempotency key. The status
// code is kept so a replayed 201 stays a 201.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware makes POST requests safe to repeat. The first
// request with a given key executes and its response is stored; repeats get
// the stored response back. A repeat that arrives while the first request is
// still executing is rejected with 409 rather than executed twice.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
}

// NewIdempotencyMiddleware creates an IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

// Wrap applies idempotency handling to mutating requests carrying a key.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		seen, cached, err := m.store.CheckAndSet(r.Context(), key, nil, idempotencyTTL)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}
		if seen {
			replay(w, cached)
			return
		}

		rec := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rec, r)

		// Failures are not cached: the claim is released so the client
		// may retry with the same key.
		if rec.statusCode < 200 || rec.statusCode >= 300 {
			m.store.Release(r.Context(), key)
			return
		}

		body := json.RawMessage(rec.body.Bytes())
		if len(body) == 0 {
			body = json.RawMessage("null")
		}
		env, err := json.Marshal(storedResponse{Status: rec.statusCode, Body: body})
		if err == nil {
			m.store.Update(r.Context(), key, env, idempotencyTTL)
		}
	})
}

// replay writes the stored response for a repeated key. A cached value that
// does not decode as an envelope is the in-flight placeholder.
func replay(w http.ResponseWriter, cached []byte) {
	var env storedResponse
	if len(cached) == 0 || json.Unmarshal(cached, &env) != nil || env.Status == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"request with this idempotency key is still in progress"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ReplayHeader, "true")
	w.WriteHeader(env.Status)
	w.Write(env.Body)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
