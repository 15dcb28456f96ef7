// Package browser drives a headless Chromium session via Rod. Partner
// dashboards gate everything behind a login, so each session restores a
// previously saved cookie state file and fails fast when the state is
// missing or stale.
package browser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/ArtOfDelight/ONfinal/internal/config"
	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// Session owns one browser instance and the pages opened on it.
type Session struct {
	browser *rod.Browser
	control *launcher.Launcher
	cfg     config.Browser
	logger  *slog.Logger
}

// NewSession launches Chromium and connects to it.
func NewSession(cfg config.Browser, logger *slog.Logger) (*Session, error) {
	windowSize := cfg.WindowSize
	if windowSize == "" {
		windowSize = "1920,1080"
	}
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", windowSize)

	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger = logger.With("component", "browser")
	logger.Info("browser session ready", "headless", cfg.Headless)

	return &Session{
		browser: browser,
		control: l,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// storageState mirrors the saved login file layout: a top-level cookie
// list with the usual CDP cookie attributes.
type storageState struct {
	Cookies []struct {
		Name     string  `json:"name"`
		Value    string  `json:"value"`
		Domain   string  `json:"domain"`
		Path     string  `json:"path"`
		Expires  float64 `json:"expires"`
		HTTPOnly bool    `json:"httpOnly"`
		Secure   bool    `json:"secure"`
		SameSite string  `json:"sameSite"`
	} `json:"cookies"`
}

// OpenPage creates a stealth page, restores cookies from the given login
// state file and navigates to url. Returns ErrNoLogin when the state file
// does not exist, so the caller can tell the operator to log in manually.
func (s *Session) OpenPage(stateFile, url string) (*rod.Page, error) {
	data, err := os.ReadFile(stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrNoLogin, stateFile)
		}
		return nil, fmt.Errorf("read login state: %w", err)
	}

	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse login state %s: %w", stateFile, err)
	}
	if len(state.Cookies) == 0 {
		return nil, fmt.Errorf("%w: %s has no cookies", types.ErrNoLogin, stateFile)
	}

	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, fmt.Errorf("stealth page: %w", err)
	}

	cookies := make([]*proto.NetworkCookieParam, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		switch strings.ToLower(c.SameSite) {
		case "lax":
			p.SameSite = proto.NetworkCookieSameSiteLax
		case "strict":
			p.SameSite = proto.NetworkCookieSameSiteStrict
		case "none":
			p.SameSite = proto.NetworkCookieSameSiteNone
		}
		cookies = append(cookies, p)
	}
	if err := page.SetCookies(cookies); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("restore cookies: %w", err)
	}

	navTimeout := s.cfg.NavigateTimeout
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	if err := page.Timeout(navTimeout).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(navTimeout).WaitStable(500 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	s.logger.Debug("page opened", "url", url, "cookies", len(cookies))
	return page, nil
}

// SaveState writes the page's current cookies back to the login state
// file, keeping refreshed session tokens for the next run.
func (s *Session) SaveState(page *rod.Page, stateFile string) error {
	cookies, err := page.Cookies(nil)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}

	state := storageState{}
	for _, c := range cookies {
		state.Cookies = append(state.Cookies, struct {
			Name     string  `json:"name"`
			Value    string  `json:"value"`
			Domain   string  `json:"domain"`
			Path     string  `json:"path"`
			Expires  float64 `json:"expires"`
			HTTPOnly bool    `json:"httpOnly"`
			Secure   bool    `json:"secure"`
			SameSite string  `json:"sameSite"`
		}{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(stateFile, data, 0o600); err != nil {
		return fmt.Errorf("write login state: %w", err)
	}
	s.logger.Debug("login state saved", "file", stateFile, "cookies", len(state.Cookies))
	return nil
}

// Close shuts the browser down and cleans up the launcher's temp profile.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.control != nil {
		s.control.Cleanup()
	}
	return err
}
