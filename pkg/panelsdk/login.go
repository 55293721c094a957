package panelsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// jsonLogin is the 3x-ui login: a JSON body, as the panel's SDK sends it.
type jsonLogin struct{}

func (jsonLogin) Login(ctx context.Context, hc *http.Client, identity string, creds Credentials) ([]*http.Cookie, error) {
	payload := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	}

	code, err := twoFactorCode(creds)
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, Err: err}
	}
	if code != "" {
		payload["twoFactorCode"] = code
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, Err: fmt.Errorf("failed to encode login: %w", err)}
	}

	return exchange(ctx, hc, identity, bytes.NewReader(body), "application/json")
}

// formLogin is the tx-ui login: a form-encoded POST.
type formLogin struct{}

func (formLogin) Login(ctx context.Context, hc *http.Client, identity string, creds Credentials) ([]*http.Cookie, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	code, err := twoFactorCode(creds)
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, Err: err}
	}
	if code != "" {
		form.Set("twoFactorCode", code)
	}

	return exchange(ctx, hc, identity, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// exchange posts the login body and returns the session cookies. A 200 with
// an envelope saying success=false is still a rejection.
func exchange(ctx context.Context, hc *http.Client, identity string, body io.Reader, contentType string) ([]*http.Cookie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, identity+pathLogin, body)
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)
	setDefaultHeaders(req)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &AuthenticationError{Identity: identity, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthenticationError{Identity: identity, StatusCode: resp.StatusCode}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && !env.Success {
		msg := env.Msg
		if msg == "" {
			msg = "invalid credentials"
		}
		return nil, &AuthenticationError{Identity: identity, StatusCode: resp.StatusCode, Msg: msg}
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, &AuthenticationError{Identity: identity, StatusCode: resp.StatusCode, Err: ErrNoSessionCookie}
	}

	return cookies, nil
}

func twoFactorCode(creds Credentials) (string, error) {
	if creds.TwoFactorSecret == "" {
		return "", nil
	}

	code, err := totp.GenerateCode(creds.TwoFactorSecret, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to generate two-factor code: %w", err)
	}
	return code, nil
}
