package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ProviderConfig конфигурация identity-провайдера, загружаемая с бэкенда.
type ProviderConfig struct {
	APIKey     string `json:"apiKey" validate:"required"`
	AuthDomain string `json:"authDomain" validate:"required"`
	ProjectID  string `json:"projectId" validate:"required"`
}

// Session нативная сессия identity-провайдера.
type Session struct {
	UID          string
	Email        string
	DisplayName  string
	PhotoURL     string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider описывает операции identity-провайдера, выполняющие сетевые вызовы.
type Provider interface {
	// SignInWithPassword аутентифицирует по email и паролю.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp создаёт новую учётную запись.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	// UpdateProfile выставляет отображаемое имя для сессии.
	UpdateProfile(ctx context.Context, idToken, displayName string) error
	// SignInWithIDP входит через внешнего OAuth-провайдера (google).
	SignInWithIDP(ctx context.Context, providerID, providerToken string) (*Session, error)
	// RefreshSession обменивает refresh-токен на свежий ID-токен.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
}

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// restProvider клиент REST API identity-провайдера (Identity Toolkit).
type restProvider struct {
	cfg        ProviderConfig
	apiURL     string
	tokenURL   string
	httpClient *http.Client
}

// NewRESTProvider создаёт REST-клиент identity-провайдера.
func NewRESTProvider(cfg ProviderConfig) Provider {
	return &restProvider{
		cfg:        cfg,
		apiURL:     identityToolkitURL,
		tokenURL:   secureTokenURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// providerResponse общая форма ответа Identity Toolkit.
type providerResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// providerError форма ошибки Identity Toolkit: {"error":{"message":"INVALID_PASSWORD"}}.
type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *restProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return p.call(ctx, "/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *restProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return p.call(ctx, "/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

func (p *restProvider) UpdateProfile(ctx context.Context, idToken, displayName string) error {
	_, err := p.call(ctx, "/accounts:update", map[string]any{
		"idToken":           idToken,
		"displayName":       displayName,
		"returnSecureToken": false,
	})
	return err
}

func (p *restProvider) SignInWithIDP(ctx context.Context, providerID, providerToken string) (*Session, error) {
	return p.call(ctx, "/accounts:signInWithIdp", map[string]any{
		"postBody":            fmt.Sprintf("id_token=%s&providerId=%s", providerToken, providerID),
		"requestUri":          "https://" + p.cfg.AuthDomain,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
}

func (p *restProvider) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}
	raw, err := p.post(ctx, p.tokenURL+"/token?key="+p.cfg.APIKey, body)
	if err != nil {
		return nil, err
	}
	var resp struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, newAuthError(CodeProviderUnavailable, "", err)
	}
	return &Session{
		UID:          resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiry(resp.ExpiresIn),
	}, nil
}

// call выполняет запрос к Identity Toolkit и приводит ответ к Session.
func (p *restProvider) call(ctx context.Context, endpoint string, body map[string]any) (*Session, error) {
	raw, err := p.post(ctx, p.apiURL+endpoint+"?key="+p.cfg.APIKey, body)
	if err != nil {
		return nil, err
	}
	var resp providerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, newAuthError(CodeProviderUnavailable, "", err)
	}
	return &Session{
		UID:          resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		PhotoURL:     resp.PhotoURL,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiry(resp.ExpiresIn),
	}, nil
}

func (p *restProvider) post(ctx context.Context, url string, body map[string]any) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, newAuthError(CodeProviderUnavailable, "", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, newAuthError(CodeProviderUnavailable, "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, newAuthError(CodeNetworkFailed, "", err)
	}
	defer resp.Body.Close()

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return nil, newAuthError(CodeNetworkFailed, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr providerError
		_ = json.Unmarshal(raw.Bytes(), &perr)
		code := perr.Error.Message
		if code == "" {
			code = CodeProviderUnavailable
		}
		return nil, newAuthError(code, "", fmt.Errorf("provider status %s", resp.Status))
	}
	return raw.Bytes(), nil
}

// expiry переводит строковый expiresIn (секунды) в момент истечения токена.
func expiry(expiresIn string) time.Time {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
