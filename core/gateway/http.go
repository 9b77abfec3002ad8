package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Per-call deadlines. Bulk list writes carry large payloads and get the
// longest budget, metadata-only patches the shortest.
const (
	timeoutListWrite = 120 * time.Second
	timeoutListAll   = 90 * time.Second
	timeoutDefault   = 60 * time.Second
	timeoutPatch     = 30 * time.Second
)

type httpClient struct {
	baseURL   string
	accountID string
	token     string
	http      *http.Client
}

// envelope is the response wrapper every gateway endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []envelopeError `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type envelopeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type listItem struct {
	Value string `json:"value"`
}

type createListPayload struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Items       []listItem `json:"items"`
}

func (c *httpClient) Lists(ctx context.Context) ([]List, error) {
	var lists []List
	err := c.call(ctx, timeoutListAll, http.MethodGet, "/gateway/lists", nil, &lists)
	return lists, err
}

func (c *httpClient) CreateList(ctx context.Context, name, description string, domains []string) (List, error) {
	payload := createListPayload{
		Name:        name,
		Description: description,
		Type:        "DOMAIN",
		Items:       toItems(domains),
	}
	var created List
	err := c.call(ctx, timeoutListWrite, http.MethodPost, "/gateway/lists", payload, &created)
	return created, err
}

func (c *httpClient) UpdateList(ctx context.Context, id, name, description string, domains []string) error {
	payload := createListPayload{
		Name:        name,
		Description: description,
		Type:        "DOMAIN",
		Items:       toItems(domains),
	}
	return c.call(ctx, timeoutListWrite, http.MethodPut, "/gateway/lists/"+id, payload, nil)
}

func (c *httpClient) PatchList(ctx context.Context, id string, patch ListPatch) error {
	return c.call(ctx, timeoutPatch, http.MethodPatch, "/gateway/lists/"+id, patch, nil)
}

func (c *httpClient) DeleteList(ctx context.Context, id string) error {
	return c.call(ctx, timeoutDefault, http.MethodDelete, "/gateway/lists/"+id, nil, nil)
}

func (c *httpClient) ListItems(ctx context.Context, id string) ([]string, error) {
	var items []listItem
	if err := c.call(ctx, timeoutDefault, http.MethodGet, "/gateway/lists/"+id+"/items", nil, &items); err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(items))
	for _, it := range items {
		domains = append(domains, it.Value)
	}
	return domains, nil
}

func (c *httpClient) Rules(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	err := c.call(ctx, timeoutDefault, http.MethodGet, "/gateway/rules", nil, &rules)
	return rules, err
}

func (c *httpClient) Rule(ctx context.Context, id string) (Rule, error) {
	var rule Rule
	err := c.call(ctx, timeoutDefault, http.MethodGet, "/gateway/rules/"+id, nil, &rule)
	return rule, err
}

func (c *httpClient) CreateRule(ctx context.Context, rule Rule) (Rule, error) {
	rule.ID = ""
	var created Rule
	err := c.call(ctx, timeoutDefault, http.MethodPost, "/gateway/rules", rule, &created)
	return created, err
}

func (c *httpClient) PatchRule(ctx context.Context, id string, patch RulePatch) error {
	return c.call(ctx, timeoutPatch, http.MethodPatch, "/gateway/rules/"+id, patch, nil)
}

func (c *httpClient) DeleteRule(ctx context.Context, id string) error {
	return c.call(ctx, timeoutDefault, http.MethodDelete, "/gateway/rules/"+id, nil, nil)
}

func toItems(domains []string) []listItem {
	items := make([]listItem, 0, len(domains))
	for _, d := range domains {
		items = append(items, listItem{Value: d})
	}
	return items
}

// call performs one API request against the account-scoped endpoint,
// unwraps the response envelope and decodes its result into out when
// out is non-nil. A null result with a non-nil out leaves out at its
// zero value.
func (c *httpClient) call(ctx context.Context, timeout time.Duration, method, endpoint string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gateway: encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(raw)
	}

	url := fmt.Sprintf("%s/accounts/%s%s", c.baseURL, c.accountID, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("gateway: build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindAPI
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return &Error{Kind: kind, Method: method, Endpoint: endpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return &Error{Kind: KindAPI, Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return &Error{
			Kind:     classifyStatus(resp.StatusCode),
			Method:   method,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  envelopeMessage(raw),
		}
	}

	// Deletes and patches may answer with an empty body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Error{Kind: KindAPI, Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if !env.Success {
		return &Error{
			Kind:     classifyStatus(resp.StatusCode),
			Method:   method,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  joinEnvelopeErrors(env.Errors),
		}
	}
	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return &Error{Kind: KindAPI, Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: "malformed result: " + err.Error()}
	}
	return nil
}

func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindAPI
	}
}

func envelopeMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Errors) > 0 {
		return joinEnvelopeErrors(env.Errors)
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func joinEnvelopeErrors(errs []envelopeError) string {
	if len(errs) == 0 {
		return "request failed"
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%d: %s", e.Code, e.Message))
	}
	return strings.Join(parts, "; ")
}
