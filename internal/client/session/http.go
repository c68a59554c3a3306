package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/youverse/dupliverse/internal/client/models"
	"github.com/youverse/dupliverse/internal/common"
	"github.com/youverse/dupliverse/internal/logging"
)

// HTTPProvider implements Provider against the backend's auth endpoints:
//
//	POST /auth/v1/signup
//	POST /auth/v1/token?grant_type=password|refresh_token
//	POST /auth/v1/logout
//
// It owns the token pair, re-mints the access token shortly before expiry,
// and emits lifecycle events on a buffered channel.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  logging.Logger

	mu           sync.Mutex
	session      *models.Session
	accessToken  string
	refreshToken string
	stopRefresh  chan struct{}

	events chan models.Event
}

func NewHTTPProvider(baseURL, apiKey string, logger logging.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		events:  make(chan models.Event, 8),
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (p *HTTPProvider) Events() <-chan models.Event { return p.events }

func (p *HTTPProvider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accessToken
}

// CurrentSession returns the session held in memory. Restoring a session
// across restarts requires a fresh sign-in; the store's warm-start cache
// covers the UI until then.
func (p *HTTPProvider) CurrentSession(ctx context.Context) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, nil
}

// SignUp registers a new account and signs it in.
func (p *HTTPProvider) SignUp(ctx context.Context, email string, password []byte) error {
	body := map[string]string{"email": email, "password": string(password)}
	tr, err := p.postToken(ctx, "/auth/v1/signup", body)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return p.adoptTokens(tr, models.SignedIn)
}

// SignIn performs a password-grant token request and emits SIGNED_IN.
func (p *HTTPProvider) SignIn(ctx context.Context, email string, password []byte) error {
	body := map[string]string{"email": email, "password": string(password)}
	tr, err := p.postToken(ctx, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	return p.adoptTokens(tr, models.SignedIn)
}

// SignOut revokes the refresh token server-side, drops local auth state and
// emits SIGNED_OUT. Safe to call when already signed out.
func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	refreshToken := p.refreshToken
	p.session = nil
	p.accessToken = ""
	p.refreshToken = ""
	if p.stopRefresh != nil {
		close(p.stopRefresh)
		p.stopRefresh = nil
	}
	p.mu.Unlock()

	if refreshToken == "" {
		return nil
	}

	if err := p.post(ctx, "/auth/v1/logout", map[string]string{"refresh_token": refreshToken}); err != nil {
		p.logger.Warn(ctx, "logout call failed", "error", err)
	}
	p.emit(models.Event{Type: models.SignedOut})
	return nil
}

// Close releases the event channel. The provider must not be used after.
func (p *HTTPProvider) Close() {
	p.mu.Lock()
	if p.stopRefresh != nil {
		close(p.stopRefresh)
		p.stopRefresh = nil
	}
	p.mu.Unlock()
	close(p.events)
}

func (p *HTTPProvider) adoptTokens(tr *tokenResponse, event models.EventType) error {
	session, err := sessionFromToken(tr.AccessToken)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.session = session
	p.accessToken = tr.AccessToken
	p.refreshToken = tr.RefreshToken
	if p.stopRefresh != nil {
		close(p.stopRefresh)
	}
	stop := make(chan struct{})
	p.stopRefresh = stop
	p.mu.Unlock()

	go p.refreshLoop(session.ExpiresAt, stop)

	p.emit(models.Event{Type: event, Session: session})
	return nil
}

// refreshLoop re-mints the access token one minute before expiry. It exits
// when the session is replaced or dropped.
func (p *HTTPProvider) refreshLoop(expiresAt time.Time, stop chan struct{}) {
	wait := time.Until(expiresAt.Add(-time.Minute))
	if wait < time.Second {
		wait = time.Second
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-stop:
		return
	case <-timer.C:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.refresh(ctx); err != nil {
		p.logger.Warn(ctx, "token refresh failed", "error", err)
	}
}

func (p *HTTPProvider) refresh(ctx context.Context) error {
	p.mu.Lock()
	refreshToken := p.refreshToken
	p.mu.Unlock()
	if refreshToken == "" {
		return common.ErrUnauthorized
	}

	body := map[string]string{"refresh_token": refreshToken}
	tr, err := p.postToken(ctx, "/auth/v1/token?grant_type=refresh_token", body)
	if err != nil {
		return err
	}
	return p.adoptTokens(tr, models.TokenRefreshed)
}

func (p *HTTPProvider) emit(e models.Event) {
	select {
	case p.events <- e:
	default:
		// A stalled consumer must not block auth flows.
	}
}

func (p *HTTPProvider) postToken(ctx context.Context, path string, body any) (*tokenResponse, error) {
	resp, err := p.doPost(ctx, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, p.asError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tr, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any) error {
	resp, err := p.doPost(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return p.asError(resp)
	}
	return nil
}

func (p *HTTPProvider) doPost(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, p.apiKey)
	return p.http.Do(req)
}

func (p *HTTPProvider) asError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
		return fmt.Errorf("auth service: %s", e.Error)
	}
	return fmt.Errorf("auth service: status %d", resp.StatusCode)
}
