package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/finboard/finboard/pkg/session"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "http://localhost:8000/api/v1"

const maxErrorBody = 64 << 10

type Client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Patch(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
	// PostPublic sends a request without credentials and without the refresh cycle (login, token refresh).
	PostPublic(ctx context.Context, path string, body any, out any) error
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type ClientImpl struct {
	baseURL   string
	http      *http.Client
	tokens    session.TokenStore
	refresher TokenRefresher
}

func NewClient(baseURL string, httpClient *http.Client, tokens session.TokenStore) *ClientImpl {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// SetRefresher wires the component able to renew an expired access token.
// Without it, a 401 is terminal immediately.
func (c *ClientImpl) SetRefresher(refresher TokenRefresher) {
	c.refresher = refresher
}

func (c *ClientImpl) BaseURL() string {
	return c.baseURL
}

func (c *ClientImpl) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *ClientImpl) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *ClientImpl) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *ClientImpl) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out, true)
}

func (c *ClientImpl) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

func (c *ClientImpl) PostPublic(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, false)
}

func (c *ClientImpl) do(ctx context.Context, method, path string, query url.Values, body any, out any, authenticated bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var token *oauth2.Token
	if authenticated && c.tokens != nil {
		var err error
		token, err = c.tokens.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load access token: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, query, payload, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		drain(resp)
		log.Debugf("%s %s returned 401, refreshing access token", method, path)
		token, err = c.refreshToken(ctx, token)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, query, payload, token)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			log.Warnf("%s %s still unauthorized after token refresh", method, path)
			return ErrUnauthenticated
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, method, path, out)
}

// refreshToken performs the single refresh allowed per request. Any failure clears the stored tokens.
func (c *ClientImpl) refreshToken(ctx context.Context, current *oauth2.Token) (*oauth2.Token, error) {
	if current == nil || current.RefreshToken == "" || c.refresher == nil {
		c.clearTokens(ctx)
		return nil, ErrUnauthenticated
	}

	access, err := c.refresher.Refresh(ctx, current.RefreshToken)
	if err != nil || access == "" {
		log.Warnf("failed to refresh access token: %v", err)
		c.clearTokens(ctx)
		return nil, ErrUnauthenticated
	}

	refreshed := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: current.RefreshToken,
		TokenType:    current.TokenType,
	}
	if err := c.tokens.Save(ctx, refreshed); err != nil {
		log.Errorf("failed to store refreshed access token: %v", err)
	}
	return refreshed, nil
}

func (c *ClientImpl) clearTokens(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Clear(ctx); err != nil {
		log.Errorf("failed to clear tokens: %v", err)
	}
}

func (c *ClientImpl) send(ctx context.Context, method, path string, query url.Values, payload []byte, token *oauth2.Token) (*http.Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil && token.AccessToken != "" {
		token.SetAuthHeader(req)
	}

	log.Tracef("%s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request %s %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, method, path string, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(raw)}
		if resp.StatusCode >= 500 {
			log.Error(err)
		} else {
			log.Debug(err)
		}
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		log.Errorf("Failed to decode response of %s %s: %v", method, path, err)
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
