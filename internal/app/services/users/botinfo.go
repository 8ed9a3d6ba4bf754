package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/user"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// BotInfoProvider resolves user context from the gifting bot's user-info
// endpoint, keyed by account id.
type BotInfoProvider struct {
	client   *http.Client
	endpoint *url.URL
	log      *logger.Logger
}

// NewBotInfoProvider constructs a provider for the given user-info endpoint.
func NewBotInfoProvider(client *http.Client, endpoint string, log *logger.Logger) (*BotInfoProvider, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("user-info endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse user-info endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("users-botinfo")
	}
	return &BotInfoProvider{client: client, endpoint: parsed, log: log}, nil
}

func (p *BotInfoProvider) Resolve(ctx context.Context, identityHint string) (user.Context, error) {
	identityHint = strings.TrimSpace(identityHint)
	if identityHint == "" {
		return user.Context{}, fmt.Errorf("account_id is required")
	}

	requestURL := *p.endpoint
	q := requestURL.Query()
	q.Set("account_id", identityHint)
	requestURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL.String(), nil)
	if err != nil {
		return user.Context{}, fmt.Errorf("build user-info request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return user.Context{}, fmt.Errorf("user-info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return user.Context{}, fmt.Errorf("user-info status %d", resp.StatusCode)
	}

	var payload struct {
		AccountID   string        `json:"account_id"`
		DisplayName string        `json:"display_name"`
		Balance     int           `json:"vbucks"`
		Friends     []user.Friend `json:"friends"`
		Error       string        `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return user.Context{}, fmt.Errorf("decode user-info response: %w", err)
	}
	if payload.Error != "" {
		return user.Context{}, fmt.Errorf("user-info: %s", payload.Error)
	}

	resolved := user.Context{
		AccountID:   payload.AccountID,
		DisplayName: payload.DisplayName,
		Balance:     payload.Balance,
		Friends:     payload.Friends,
	}
	if resolved.AccountID == "" {
		resolved.AccountID = identityHint
	}
	return resolved, nil
}
