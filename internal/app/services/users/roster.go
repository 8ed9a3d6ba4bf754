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

// RosterProvider resolves user context from a static per-username friends
// roster published as <base>/<username>.json. Deployments without the bot's
// user-info endpoint use it with a fixed balance.
type RosterProvider struct {
	client  *http.Client
	base    *url.URL
	balance int
	log     *logger.Logger
}

// NewRosterProvider constructs a provider reading rosters under base.
func NewRosterProvider(client *http.Client, base string, balance int, log *logger.Logger) (*RosterProvider, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, fmt.Errorf("friends roster base URL required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse friends roster base URL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("users-roster")
	}
	return &RosterProvider{client: client, base: parsed, balance: balance, log: log}, nil
}

func (p *RosterProvider) Resolve(ctx context.Context, identityHint string) (user.Context, error) {
	identityHint = strings.TrimSpace(identityHint)
	if identityHint == "" {
		return user.Context{}, fmt.Errorf("username is required")
	}

	rosterURL := *p.base
	rosterURL.Path = strings.TrimRight(rosterURL.Path, "/") + "/" + url.PathEscape(identityHint) + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rosterURL.String(), nil)
	if err != nil {
		return user.Context{}, fmt.Errorf("build roster request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return user.Context{}, fmt.Errorf("roster request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return user.Context{}, fmt.Errorf("roster status %d", resp.StatusCode)
	}

	var friends []user.Friend
	if err := json.NewDecoder(resp.Body).Decode(&friends); err != nil {
		return user.Context{}, fmt.Errorf("decode roster: %w", err)
	}

	return user.Context{
		AccountID:   identityHint,
		DisplayName: identityHint,
		Balance:     p.balance,
		Friends:     friends,
	}, nil
}
