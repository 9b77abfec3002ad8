package gateway

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

// List is a domain list held by the gateway account.
type List struct {
	// ID is the identifier assigned by the gateway.
	ID string `json:"id"`
	// Name is the list name.
	Name string `json:"name"`
	// Description is the free-text description.
	Description string `json:"description"`
	// Count is the number of items in the list.
	Count int `json:"count"`
}

// Rule is a gateway policy rule.
type Rule struct {
	// ID is the identifier assigned by the gateway.
	ID string `json:"id"`
	// Name is the rule name.
	Name string `json:"name"`
	// Description is the free-text description, which may carry an
	// embedded metadata marker.
	Description string `json:"description"`
	// Enabled reports whether the rule is active.
	Enabled bool `json:"enabled"`
	// Action is the gateway action, "block" for managed rules.
	Action string `json:"action"`
	// Filters are the gateway phases the rule applies to.
	Filters []string `json:"filters"`
	// Traffic is the wirefilter expression matched against queries.
	Traffic string `json:"traffic"`
}

// ListPatch updates individual fields of a list. Nil fields are left
// unchanged.
type ListPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RulePatch updates individual fields of a rule. Nil fields are left
// unchanged.
type RulePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// Client defines the interface for gateway list and rule operations.
type Client interface {
	// Lists returns every domain list on the account.
	Lists(ctx context.Context) ([]List, error)
	// CreateList creates a domain list and returns it with its
	// assigned id.
	CreateList(ctx context.Context, name, description string, domains []string) (List, error)
	// UpdateList replaces a list's name, description and items.
	UpdateList(ctx context.Context, id, name, description string, domains []string) error
	// PatchList updates individual list fields.
	PatchList(ctx context.Context, id string, patch ListPatch) error
	// DeleteList removes a list.
	DeleteList(ctx context.Context, id string) error
	// ListItems returns the domains held by a list.
	ListItems(ctx context.Context, id string) ([]string, error)
	// Rules returns every rule on the account.
	Rules(ctx context.Context) ([]Rule, error)
	// Rule returns a single rule with its traffic expression.
	Rule(ctx context.Context, id string) (Rule, error)
	// CreateRule creates a rule and returns it with its assigned id.
	CreateRule(ctx context.Context, rule Rule) (Rule, error)
	// PatchRule updates individual rule fields.
	PatchRule(ctx context.Context, id string, patch RulePatch) error
	// DeleteRule removes a rule.
	DeleteRule(ctx context.Context, id string) error
}

// NewClient creates a gateway API client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	if cfg.AccountID == "" {
		return nil, errMissingAccount
	}
	if cfg.APIToken == "" {
		return nil, errMissingToken
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	// Connection-level timeouts; per-call deadlines are applied via
	// request contexts so bulk list writes can run longer than metadata
	// patches.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 15 * time.Second,
	}

	return &httpClient{
		baseURL:   baseURL,
		accountID: cfg.AccountID,
		token:     cfg.APIToken,
		http:      &http.Client{Transport: transport},
	}, nil
}
