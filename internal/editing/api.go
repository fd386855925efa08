package editing

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SecretHeader carries the shared editing secret when the caller prefers a
// header over the query string.
const SecretHeader = "X-Editing-Secret"

// VerifySecret reports whether the request carries the shared editing
// secret, in the query string or in SecretHeader. An empty configured
// secret matches nothing, keeping an unconfigured surface locked.
func VerifySecret(r *http.Request, secret string) bool {
	provided := r.URL.Query().Get("secret")
	if provided == "" {
		provided = r.Header.Get(SecretHeader)
	}

	return secret != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

// API is the HTTP surface the CMS editing host talks to. Every route is
// guarded by the shared secret; an unconfigured secret rejects everything.
type API struct {
	store  Store
	secret string
	logger *zap.Logger
}

func NewAPI(store Store, secret string, logger *zap.Logger) *API {
	return &API{store: store, secret: secret, logger: logger}
}

// Register adds the data routes to r. The secret guard wraps only the
// routes registered here so callers can hang sibling routes off the same
// prefix with their own checks.
func (a *API) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		gr.Use(a.requireSecret)
		gr.Post("/data", a.handleCreate)
		gr.Put("/data/{key}", a.handleUpsert)
		gr.Get("/data/{key}", a.handleGet)
		gr.Delete("/data/{key}", a.handleDelete)
	})
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	a.Register(r)

	return r
}

func (a *API) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !VerifySecret(r, a.secret) {
			respondError(w, http.StatusUnauthorized, "invalid editing secret")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeData(w, r)
	if !ok {
		return
	}
	data.Key = NewKey()

	if err := data.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.store.Put(r.Context(), data); err != nil {
		a.fail(w, "store editing data", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"key": data.Key})
}

func (a *API) handleUpsert(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeData(w, r)
	if !ok {
		return
	}

	key := chi.URLParam(r, "key")
	if data.Key == "" {
		data.Key = key
	}
	if data.Key != key {
		respondError(w, http.StatusBadRequest, "body key does not match URL key")
		return
	}

	if err := data.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.store.Put(r.Context(), data); err != nil {
		a.fail(w, "store editing data", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	data, err := a.store.Get(r.Context(), key)
	if errors.Is(err, ErrDataNotFound) {
		respondError(w, http.StatusNotFound, "unknown editing key")
		return
	}
	if err != nil {
		a.fail(w, "load editing data", err)
		return
	}

	respondJSON(w, http.StatusOK, data)
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := a.store.Delete(r.Context(), key); err != nil {
		a.fail(w, "delete editing data", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) fail(w http.ResponseWriter, op string, err error) {
	a.logger.Error(op, zap.Error(err))
	respondError(w, http.StatusInternalServerError, "editing store failure")
}

func decodeData(w http.ResponseWriter, r *http.Request) (*Data, bool) {
	var data Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, http.StatusBadRequest, "malformed editing payload")
		return nil, false
	}

	return &data, true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
