// scraper/session.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// sessionCookieName is the cookie the booking site uses to hand out its
// server-side search-session identifier.
const sessionCookieName = "IDSESION"

// Session owns the cookie-bearing connection state for exactly one search
// invocation. The remote system encodes selection state in the session, so
// a Session must never be shared between concurrent searches; create one
// per call and discard it afterwards.
type Session struct {
	client *http.Client
	id     string
}

// NewSession creates a fresh session with its own cookie jar and a bounded
// per-call timeout. Timeout expiry surfaces as a network failure.
func NewSession(timeout time.Duration) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Session{
		client: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// ID returns the remote-assigned session identifier, or "" if the remote
// side has not handed one out yet. It is populated from transport metadata
// (the session cookie), never re-parsed from a stringified cookie dump.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	s.captureID(resp)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("request to %s returned status %d", req.URL.Host, resp.StatusCode)
	}
	return resp, nil
}

// captureID records the session identifier the moment the remote side
// assigns one, either on this response or already sitting in the jar.
func (s *Session) captureID(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			s.id = c.Value
			return
		}
	}
	if s.id == "" && s.client.Jar != nil {
		for _, c := range s.client.Jar.Cookies(resp.Request.URL) {
			if c.Name == sessionCookieName && c.Value != "" {
				s.id = c.Value
				return
			}
		}
	}
}

// Get issues a session-bound GET and discards the body. Used for the
// protocol steps that only move remote session state forward.
func (s *Session) Get(ctx context.Context, rawURL string, params url.Values) error {
	resp, err := s.getResponse(ctx, rawURL, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

// GetDocument issues a session-bound GET and parses the response markup.
func (s *Session) GetDocument(ctx context.Context, rawURL string, params url.Values) (*goquery.Document, error) {
	resp, err := s.getResponse(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", rawURL, err)
	}
	return doc, nil
}

func (s *Session) getResponse(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GET request for %s: %w", rawURL, err)
	}
	return s.do(req)
}

// PostForm issues a session-bound form POST and parses the response markup.
func (s *Session) PostForm(ctx context.Context, rawURL string, form url.Values) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build POST request for %s: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", rawURL, err)
	}
	return doc, nil
}
