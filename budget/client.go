package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonwraymond/budgetops/resilience"
)

// DefaultBaseURL is the budgeting API endpoint used when none is configured.
const DefaultBaseURL = "https://api.ynab.com/v1"

// ClientConfig configures the budgeting API client.
type ClientConfig struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// Token is the personal access token sent as a Bearer credential.
	// Required.
	Token string

	// Timeout bounds each API call including retries of a single attempt.
	// Default: 10 seconds.
	Timeout time.Duration

	// Retry configures retry behavior for rate-limited and server-side
	// failures. Zero value uses the resilience package defaults with
	// Retryable as the retry predicate.
	Retry resilience.RetryConfig

	// Limiter throttles outgoing requests below the API's own rate limit.
	// Nil disables client-side limiting.
	Limiter *resilience.Limiter

	// HTTPClient is the HTTP client to use. If nil, a default client is used.
	HTTPClient *http.Client
}

// Client calls the upstream budgeting API. Tool handlers do not use it
// directly; they go through the cache, with the client as the loader.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      *resilience.Retry
	limiter    *resilience.Limiter
	timeout    time.Duration
}

// NewClient creates a budgeting API client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.RetryIf == nil {
		cfg.Retry.RetryIf = Retryable
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		httpClient: httpClient,
		retry:      resilience.NewRetry(cfg.Retry),
		limiter:    cfg.Limiter,
		timeout:    cfg.Timeout,
	}, nil
}

// User returns the authenticated API user. Callers use it as a cheap
// connectivity and credential check.
func (c *Client) User(ctx context.Context) (User, error) {
	var envelope struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/user", nil, &envelope); err != nil {
		return User{}, err
	}
	return envelope.User, nil
}

// Budgets lists the budgets visible to the token.
func (c *Client) Budgets(ctx context.Context) ([]Budget, error) {
	var envelope struct {
		Budgets []Budget `json:"budgets"`
	}
	if err := c.get(ctx, "/budgets", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Budgets, nil
}

// Accounts lists the accounts of a budget.
func (c *Client) Accounts(ctx context.Context, budgetID string) ([]Account, error) {
	var envelope struct {
		Accounts []Account `json:"accounts"`
	}
	path := fmt.Sprintf("/budgets/%s/accounts", url.PathEscape(budgetID))
	if err := c.get(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Accounts, nil
}

// Categories lists the category groups of a budget.
func (c *Client) Categories(ctx context.Context, budgetID string) ([]CategoryGroup, error) {
	var envelope struct {
		CategoryGroups []CategoryGroup `json:"category_groups"`
	}
	path := fmt.Sprintf("/budgets/%s/categories", url.PathEscape(budgetID))
	if err := c.get(ctx, path, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.CategoryGroups, nil
}

// Transactions lists transactions of a budget, optionally filtered.
func (c *Client) Transactions(ctx context.Context, budgetID string, query TransactionsQuery) ([]Transaction, error) {
	var envelope struct {
		Transactions []Transaction `json:"transactions"`
	}
	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(budgetID))
	if query.AccountID != "" {
		path = fmt.Sprintf("/budgets/%s/accounts/%s/transactions",
			url.PathEscape(budgetID), url.PathEscape(query.AccountID))
	}
	params := url.Values{}
	if query.SinceDate != "" {
		params.Set("since_date", query.SinceDate)
	}
	if err := c.get(ctx, path, params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Transactions, nil
}

// CreateTransaction creates a transaction and returns the stored result.
func (c *Client) CreateTransaction(ctx context.Context, budgetID string, tx NewTransaction) (Transaction, error) {
	payload := struct {
		Transaction NewTransaction `json:"transaction"`
	}{Transaction: tx}

	var envelope struct {
		Transaction Transaction `json:"transaction"`
	}
	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(budgetID))
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &envelope); err != nil {
		return Transaction{}, err
	}
	return envelope.Transaction, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// do executes one API call with retry for retryable failures. Mutating
// requests are retried too: the upstream API deduplicates on its side and
// rate-limit rejections never reach the ledger.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	return c.retry.Execute(ctx, func(ctx context.Context) error {
		// Each attempt takes a token so retries do not stack on top of the
		// upstream rate limit.
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return resilience.ExecuteWithTimeout(ctx, c.timeout, func(ctx context.Context) error {
			return c.doOnce(ctx, method, path, params, payload, out)
		})
	})
}

func (c *Client) doOnce(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("budget: failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("budget: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("budget: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("budget: failed to decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("budget: failed to decode response data: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error struct {
			Name   string `json:"name"`
			Detail string `json:"detail"`
		} `json:"error"`
	}
	// Bounded read: error bodies are small; a broken body still yields a
	// usable status-code error.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil {
			apiErr.Name = envelope.Error.Name
			apiErr.Detail = envelope.Error.Detail
		}
	}
	return apiErr
}
