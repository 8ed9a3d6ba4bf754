// Package gift builds and dispatches the single outbound buy-or-gift
// request produced by a completed selection.
package gift

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/selection"
	"github.com/kiddarkness/itemshop/internal/app/domain/user"
	"github.com/kiddarkness/itemshop/internal/app/metrics"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// FailureMessage is shown when the request itself could not be completed.
const FailureMessage = "❌ Error al enviar el regalo."

// Request is the payload the fulfillment backend expects.
type Request struct {
	AccountID   string `json:"account_id"`
	Recipient   string `json:"recipient"`
	Cosmetic    string `json:"cosmetic"`
	Amount      int    `json:"amount"`
	CreatorCode string `json:"creator_code"`
}

// Dispatcher sends buy/gift requests to the fulfillment backend. One request
// per call, no retry, no idempotency key; a double-click submits twice and
// the backend is expected to cope.
type Dispatcher struct {
	client   *http.Client
	endpoint *url.URL
	log      *logger.Logger
}

// NewDispatcher constructs a dispatcher for the given backend endpoint.
func NewDispatcher(client *http.Client, endpoint string, log *logger.Logger) (*Dispatcher, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("gift endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse gift endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("gift-dispatcher")
	}
	return &Dispatcher{client: client, endpoint: parsed, log: log}, nil
}

// BuildRequest assembles the outbound payload from the selection and user
// context. The second return is false when the preconditions fail (no item
// selected or no resolved account id) and nothing must be sent.
func BuildRequest(st selection.State, usr user.Context) (Request, bool) {
	if !st.Selected() || usr.AccountID == "" {
		return Request{}, false
	}
	recipient := st.Recipient
	if st.Operation == selection.OperationBuy {
		recipient = ""
	}
	return Request{
		AccountID:   usr.AccountID,
		Recipient:   recipient,
		Cosmetic:    st.Item.Name,
		Amount:      st.Quantity,
		CreatorCode: st.SupportCode,
	}, true
}

// Dispatch sends one request and maps the response to the user-visible
// message. A transport failure yields FailureMessage plus the error for
// logging; an error-shaped response body is surfaced as the message itself.
func (d *Dispatcher) Dispatch(ctx context.Context, st selection.State, usr user.Context) (string, error) {
	payload, ok := BuildRequest(st, usr)
	if !ok {
		return "", fmt.Errorf("nothing to dispatch: item and account_id are required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return FailureMessage, fmt.Errorf("encode gift payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return FailureMessage, fmt.Errorf("build gift request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.RecordGiftDispatch(string(st.Operation), "error")
		return FailureMessage, fmt.Errorf("gift request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.RecordGiftDispatch(string(st.Operation), "error")
		return FailureMessage, fmt.Errorf("decode gift response: %w", err)
	}

	message := result.Message
	if message == "" {
		message = result.Error
	}
	if message == "" {
		message = "✅ Operación completada"
	}

	status := "success"
	if result.Error != "" || resp.StatusCode >= 400 {
		status = "rejected"
	}
	metrics.RecordGiftDispatch(string(st.Operation), status)

	d.log.WithField("account_id", payload.AccountID).
		WithField("cosmetic", payload.Cosmetic).
		WithField("operation", string(st.Operation)).
		WithField("status", status).
		Info("gift dispatched")
	return message, nil
}
