// Package httpapi exposes the REST surface of the item-shop service and
// serves the built front end.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	app "github.com/kiddarkness/itemshop/internal/app"
	"github.com/kiddarkness/itemshop/internal/app/domain/selection"
	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/internal/app/domain/user"
	"github.com/kiddarkness/itemshop/internal/app/metrics"
)

// Options tunes the HTTP layer.
type Options struct {
	// StaticDir is the front-end build directory served behind the API
	// routes. Empty disables static serving.
	StaticDir string
	// DispatchRate/DispatchBurst bound gift submissions per client.
	DispatchRate  int
	DispatchBurst int
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// shopResponse is the render model for the shop page.
type shopResponse struct {
	Categories []shop.Category `json:"categories"`
	TotalCount int             `json:"total_count"`
}

// NewHandler returns a router exposing the REST API, the metrics endpoint
// and the SPA catch-all.
func NewHandler(application *app.Application, opts Options) http.Handler {
	h := &handler{app: application}
	limiter := newRateLimiter(opts.DispatchRate, opts.DispatchBurst)

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/shop", h.shop).Methods(http.MethodGet)
	api.HandleFunc("/user-info", h.userInfo).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.createSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/select", h.selectItem).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/operation", h.setOperation).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/recipient", h.setRecipient).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/quantity", h.setQuantity).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/code", h.setSupportCode).Methods(http.MethodPost)
	api.Handle("/sessions/{id}/send", limiter.limit(http.HandlerFunc(h.sendSession))).Methods(http.MethodPost)

	r.Handle("/send-gift", limiter.limit(http.HandlerFunc(h.sendGift))).Methods(http.MethodPost)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(newSPAHandler(opts.StaticDir, "index.html"))
	}
	return r
}

func (h *handler) shop(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")
	categories, total, err := h.app.Catalog.Search(r.Context(), term)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if categories == nil {
		categories = []shop.Category{}
	}
	writeJSON(w, http.StatusOK, shopResponse{Categories: categories, TotalCount: total})
}

func (h *handler) userInfo(w http.ResponseWriter, r *http.Request) {
	if h.app.Users == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("user provider not configured"))
		return
	}
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("account_id is required"))
		return
	}
	usr, err := h.app.Users.Resolve(r.Context(), accountID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, usr)
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AccountID string `json:"account_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.Create(r.Context(), payload.AccountID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.app.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) selectItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.Select(r.Context(), mux.Vars(r)["id"], payload.Name, payload.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) setOperation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Operation string `json:"operation"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.SetOperation(r.Context(), mux.Vars(r)["id"], selection.Operation(payload.Operation))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) setRecipient(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.SetRecipient(r.Context(), mux.Vars(r)["id"], payload.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Amount int `json:"amount"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.SetQuantity(r.Context(), mux.Vars(r)["id"], payload.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) setSupportCode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CreatorCode string `json:"creator_code"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := h.app.Sessions.SetSupportCode(r.Context(), mux.Vars(r)["id"], payload.CreatorCode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) sendSession(w http.ResponseWriter, r *http.Request) {
	message, err := h.app.Sessions.Send(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// sendGift is the direct dispatch path for clients that track their
// selection locally and submit the finished payload in one call.
func (h *handler) sendGift(w http.ResponseWriter, r *http.Request) {
	if h.app.Gifts == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("gift dispatch not configured"))
		return
	}
	var payload struct {
		AccountID   string `json:"account_id"`
		Recipient   string `json:"recipient"`
		Cosmetic    string `json:"cosmetic"`
		Amount      int    `json:"amount"`
		CreatorCode string `json:"creator_code"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st := selection.NewState("direct", payload.AccountID, payload.CreatorCode)
	st.Select(shop.DisplayItem{Name: payload.Cosmetic})
	st.SetQuantity(payload.Amount)
	if payload.Recipient != "" {
		st.SetOperation(selection.OperationGift)
		st.SetRecipient(payload.Recipient)
	}

	message, err := h.app.Gifts.Dispatch(r.Context(), st, user.Context{AccountID: payload.AccountID})
	if err != nil && message == "" {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
