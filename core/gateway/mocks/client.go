package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gateway-manager/core/gateway"
)

// Client is a mock implementation of gateway.Client
type Client struct {
	mock.Mock
}

func (m *Client) Lists(ctx context.Context) ([]gateway.List, error) {
	args := m.Called(ctx)
	if lists, ok := args.Get(0).([]gateway.List); ok {
		return lists, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateList(ctx context.Context, name, description string, domains []string) (gateway.List, error) {
	args := m.Called(ctx, name, description, domains)
	return args.Get(0).(gateway.List), args.Error(1)
}

func (m *Client) UpdateList(ctx context.Context, id, name, description string, domains []string) error {
	args := m.Called(ctx, id, name, description, domains)
	return args.Error(0)
}

func (m *Client) PatchList(ctx context.Context, id string, patch gateway.ListPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *Client) DeleteList(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Client) ListItems(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if items, ok := args.Get(0).([]string); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Rules(ctx context.Context) ([]gateway.Rule, error) {
	args := m.Called(ctx)
	if rules, ok := args.Get(0).([]gateway.Rule); ok {
		return rules, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Rule(ctx context.Context, id string) (gateway.Rule, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(gateway.Rule), args.Error(1)
}

func (m *Client) CreateRule(ctx context.Context, rule gateway.Rule) (gateway.Rule, error) {
	args := m.Called(ctx, rule)
	return args.Get(0).(gateway.Rule), args.Error(1)
}

func (m *Client) PatchRule(ctx context.Context, id string, patch gateway.RulePatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *Client) DeleteRule(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
