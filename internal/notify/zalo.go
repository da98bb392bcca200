package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"branch-locator/pkg/utils"

	"go.uber.org/zap"
)

// DefaultTokenLifetime applies when the OAuth response omits expires_in (25 hours).
const DefaultTokenLifetime = 90000

var ErrNoAccessToken = errors.New("No access_token in response")

// flexInt accepts both 90000 and "90000". Anything else decodes as zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// TokenResponse is the OA OAuth refresh payload.
type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    flexInt `json:"expires_in"`
	Error        flexInt `json:"error"`
	ErrorName    string  `json:"error_name"`
	ErrorReason  string  `json:"error_reason"`
	Message      string  `json:"message"`
}

// Lifetime returns expires_in in seconds with the default applied.
func (t *TokenResponse) Lifetime() int64 {
	if t.ExpiresIn <= 0 {
		return DefaultTokenLifetime
	}
	return int64(t.ExpiresIn)
}

type apiResponse struct {
	Error   flexInt `json:"error"`
	Message string  `json:"message"`
}

// HTTPError carries a non-2xx status from the OA endpoints.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Zalo HTTP %d: %s", e.Status, e.Body)
}

// ZaloClient talks to the OA OAuth and messaging endpoints.
type ZaloClient struct {
	oauthURL  string
	apiURL    string
	appID     string
	appSecret string
	http      *http.Client
	log       *zap.Logger
}

func NewZaloClient(cfg utils.ZaloConfig, httpClient *http.Client, log *zap.Logger) *ZaloClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ZaloClient{
		oauthURL:  strings.TrimRight(cfg.OAuthURL, "/"),
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		http:      httpClient,
		log:       log.With(zap.String("service", "zalo_client")),
	}
}

// Refresh exchanges a refresh token for a new token pair.
func (c *ZaloClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")
	if c.appID != "" {
		form.Set("app_id", c.appID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL+"/v4/oa/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("zalo refresh: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.appSecret != "" {
		req.Header.Set("secret_key", c.appSecret)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("zalo refresh: %w", err)
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("zalo refresh: decode response: %w", err)
	}
	if tr.Error != 0 {
		reason := tr.ErrorReason
		if reason == "" {
			reason = tr.Message
		}
		return nil, fmt.Errorf("zalo refresh: error %d %s: %s", tr.Error, tr.ErrorName, reason)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("zalo refresh: %w", ErrNoAccessToken)
	}

	return &tr, nil
}

// Probe makes a cheap authenticated read to check a token without messaging anyone.
func (c *ZaloClient) Probe(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2.0/oa/getoa", nil)
	if err != nil {
		return fmt.Errorf("zalo probe: create request: %w", err)
	}
	req.Header.Set("access_token", accessToken)

	body, err := c.do(req)
	if err != nil {
		return fmt.Errorf("zalo probe: %w", err)
	}
	return checkAPIResponse(body)
}

// SendText posts one customer-service text message to userID.
func (c *ZaloClient) SendText(ctx context.Context, accessToken, userID, text string) error {
	payload := map[string]any{
		"recipient": map[string]string{"user_id": userID},
		"message":   map[string]string{"text": text},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v3.0/oa/message/cs", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("zalo send: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", accessToken)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	return checkAPIResponse(body)
}

func (c *ZaloClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("Zalo returned error status",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &HTTPError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// checkAPIResponse treats a non-zero error code or message "error" as failure.
func checkAPIResponse(body []byte) error {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if r.Error != 0 || r.Message == "error" {
		if r.Message != "" {
			return errors.New(r.Message)
		}
		return fmt.Errorf("zalo error %d", r.Error)
	}
	return nil
}
