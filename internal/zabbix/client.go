package zabbix

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/szulist/zabbix-proxy-dashboards/internal/capability"
	"github.com/szulist/zabbix-proxy-dashboards/internal/config"
)

// Client is a Zabbix API client. One client owns one authenticated session
// for the duration of a run.
type Client struct {
	cfg        *config.Config
	log        *zap.Logger
	httpClient *http.Client
	authToken  string
	tokenAuth  bool
	version    *semver.Version
	requestID  int64
}

// NewClient creates a Zabbix API client, fetches the server version and
// authenticates. Token login is gated on the server supporting API tokens;
// the capability error is fatal to the run.
func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.Zabbix.VerifySSL, //nolint:gosec // G402: user-configurable option, defaults to VerifySSL=true
		},
	}

	c := &Client{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.Zabbix.Timeout) * time.Second,
			Transport: otelhttp.NewTransport(transport),
		},
	}

	// apiinfo.version does not require auth and anchors every capability
	// decision for the rest of the run.
	raw, err := c.getAPIVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get API version: %w", err)
	}
	c.version, err = semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API version %q: %w", raw, err)
	}
	c.log.Debug("Detected Zabbix API version", zap.String("version", raw))

	if err := c.authenticate(); err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return c, nil
}

// Version returns the server version fetched at connect time. Immutable for
// the run.
func (c *Client) Version() *semver.Version {
	return c.version
}

// TokenAuth reports whether this session uses a stateless API token.
func (c *Client) TokenAuth() bool {
	return c.tokenAuth
}

// authenticate logs in with username/password, or adopts the configured API
// token when the server is new enough to accept one.
func (c *Client) authenticate() error {
	if c.cfg.TokenAuth() {
		if err := capability.Require(c.version, capability.APITokens); err != nil {
			return err
		}
		c.authToken = c.cfg.Zabbix.Token
		c.tokenAuth = true
		c.log.Debug("Using API token authentication")
		return nil
	}

	// The login parameter was renamed from "user" to "username" in 5.4
	// and the old name is rejected by 6.4+.
	userKey := "user"
	if !c.version.LessThan(semver.MustParse("5.4.0")) {
		userKey = "username"
	}
	params := map[string]string{
		userKey:    c.cfg.Zabbix.Username,
		"password": c.cfg.Zabbix.Password,
	}

	result, err := c.call("user.login", params)
	if err != nil {
		return err
	}

	token, ok := result.(string)
	if !ok {
		return fmt.Errorf("unexpected auth response type: %T", result)
	}

	c.authToken = token
	c.log.Debug("Authenticated with Zabbix API")
	return nil
}

// UserID returns the userid of the authenticated session, which becomes the
// owner of every provisioned dashboard.
func (c *Client) UserID(ctx context.Context) (string, error) {
	if c.tokenAuth {
		result, err := c.callWithContext(ctx, "token.get", map[string]interface{}{
			"output": []string{"userid"},
			"token":  c.authToken,
		})
		if err != nil {
			return "", fmt.Errorf("failed to resolve token owner: %w", err)
		}
		tokens, ok := result.([]interface{})
		if !ok || len(tokens) == 0 {
			return "", fmt.Errorf("no token entry in response")
		}
		entry, ok := tokens[0].(map[string]interface{})
		if !ok {
			return "", fmt.Errorf("unexpected token entry type: %T", tokens[0])
		}
		userID, ok := entry["userid"].(string)
		if !ok {
			return "", fmt.Errorf("no userid in token entry")
		}
		return userID, nil
	}

	result, err := c.callWithContext(ctx, "user.checkAuthentication", map[string]interface{}{
		"sessionid": c.authToken,
	})
	if err != nil {
		return "", fmt.Errorf("failed to check authentication: %w", err)
	}
	session, ok := result.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected session response type: %T", result)
	}
	userID, ok := session["userid"].(string)
	if !ok {
		return "", fmt.Errorf("no userid in session response")
	}
	return userID, nil
}

// call makes a JSON-RPC call to the Zabbix API
func (c *Client) call(method string, params interface{}) (interface{}, error) {
	return c.callWithContext(context.Background(), method, params)
}

// callWithContext makes a JSON-RPC call with context
func (c *Client) callWithContext(ctx context.Context, method string, params interface{}) (interface{}, error) {
	reqID := atomic.AddInt64(&c.requestID, 1)

	reqBody := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      reqID,
	}

	// Add auth token if we have one (except for unauthenticated methods)
	if c.authToken != "" && method != "user.login" && method != "apiinfo.version" {
		reqBody["auth"] = c.authToken
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	c.log.Debug("Calling Zabbix API", zap.String("method", method), zap.Int64("id", reqID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ZabbixAPIURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-rpc")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error != nil {
		return nil, apiResp.Error
	}

	return apiResp.Result, nil
}

// getAPIVersion returns the raw Zabbix API version string
func (c *Client) getAPIVersion() (string, error) {
	result, err := c.call("apiinfo.version", []string{})
	if err != nil {
		return "", err
	}
	version, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected API version type: %T", result)
	}
	return version, nil
}

// Close logs out interactive sessions. Token sessions are stateless
// credentials and are not torn down.
func (c *Client) Close() error {
	if c.authToken == "" || c.tokenAuth {
		return nil
	}

	_, err := c.call("user.logout", []string{})
	c.authToken = ""
	return err
}
