package application

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"shopify-embedded-app/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saves    int
	getErr   error
}

func newFakeSessions(sessions ...*domain.Session) *fakeSessions {
	f := &fakeSessions{sessions: make(map[string]*domain.Session)}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeSessions) Save(_ context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	f.saves++
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sessions[id]
	delete(f.sessions, id)
	return ok, nil
}

type fakeStates struct {
	states map[string]string
}

func newFakeStates() *fakeStates {
	return &fakeStates{states: make(map[string]string)}
}

func (f *fakeStates) Put(_ context.Context, state, shop string, _ time.Duration) error {
	f.states[state] = shop
	return nil
}

func (f *fakeStates) Consume(_ context.Context, state string) (string, error) {
	shop := f.states[state]
	delete(f.states, state)
	return shop, nil
}

type createdWebhook struct {
	shop, token, topic, address string
}

type fakeClient struct {
	token       string
	scopes      []goshopify.AccessScope
	products    []goshopify.Product
	scopesErr   error
	productsErr error
	exchErr     error
	hookErr     error

	exchangedCodes []string
	scopeCalls     int
	webhooks       []createdWebhook
}

func (f *fakeClient) ExchangeToken(_ context.Context, _ string, code string) (string, error) {
	f.exchangedCodes = append(f.exchangedCodes, code)
	if f.exchErr != nil {
		return "", f.exchErr
	}
	return f.token, nil
}

func (f *fakeClient) ListAccessScopes(_ context.Context, _ string, _ string) ([]goshopify.AccessScope, error) {
	f.scopeCalls++
	if f.scopesErr != nil {
		return nil, f.scopesErr
	}
	return f.scopes, nil
}

func (f *fakeClient) ListProducts(_ context.Context, _ string, _ string) ([]goshopify.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeClient) CreateWebhook(_ context.Context, shop, token, topic, address string) (*goshopify.Webhook, error) {
	if f.hookErr != nil {
		return nil, f.hookErr
	}
	f.webhooks = append(f.webhooks, createdWebhook{shop, token, topic, address})
	return &goshopify.Webhook{Id: uint64(len(f.webhooks)), Topic: topic, Address: address}, nil
}

type fakeVerifier struct {
	queryErr   error
	queryCalls int
}

func (f *fakeVerifier) VerifyQuery(_ *url.URL) error {
	f.queryCalls++
	return f.queryErr
}

func (f *fakeVerifier) VerifyWebhook(_ *http.Request) error {
	return nil
}

func strPtr(v string) *string { return &v }
