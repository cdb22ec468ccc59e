package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Abitto-org/user-app/meter"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

// Client is the typed client for the remote Abitto REST API. Every request
// leaves through the Transport, which owns the cross-cutting headers.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient constructs a client against baseURL. transport should be the
// *Transport dispatcher; passing nil falls back to the default transport
// (used by a few tests that exercise decoding only).
func NewClient(baseURL string, timeout time.Duration, transport http.RoundTripper) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("api: empty base url")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// ── Auth ──

// Signup starts credential issuance; the server replies with a message and
// sends an OTP to the email.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/signup", nil, map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Signin starts a login; like Signup it is followed by OTP verification.
func (c *Client) Signin(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/signin", nil, map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// GenerateOTP requests a one-time passcode for the given purpose.
func (c *Client) GenerateOTP(ctx context.Context, email, otpType string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/otp/generate", nil, map[string]string{
		"email": email, "type": otpType,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// VerifyOTP validates a passcode. On success the result carries the bearer
// token and onboarding flag that seed the session.
func (c *Client) VerifyOTP(ctx context.Context, email, otp, otpType string) (VerifyOTPResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/otp/verify", nil, map[string]string{
		"email": email, "otp": otp, "type": otpType,
	})
	if err != nil {
		return VerifyOTPResult{}, err
	}

	var result VerifyOTPResult
	if err := env.decodeData(&result); err != nil {
		return VerifyOTPResult{}, err
	}
	return result, nil
}

// ── Profile and onboarding ──

func (c *Client) Profile(ctx context.Context) (UserProfile, error) {
	env, err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil)
	if err != nil {
		return UserProfile{}, err
	}

	var data struct {
		User UserProfile `json:"user"`
	}
	if err := env.decodeData(&data); err != nil {
		return UserProfile{}, err
	}
	return data.User, nil
}

func (c *Client) SubmitOnboarding(ctx context.Context, req OnboardingRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPut, "/user/profile/onboarding", nil, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) Estates(ctx context.Context) ([]Estate, error) {
	env, err := c.do(ctx, http.MethodGet, "/estate", nil, nil)
	if err != nil {
		return nil, err
	}

	var estates []Estate
	if err := env.decodeData(&estates); err != nil {
		return nil, err
	}
	return estates, nil
}

// ── Meters ──

// Meters lists the meters owned by the caller. An empty list is a valid
// response, not an error.
func (c *Client) Meters(ctx context.Context) ([]meter.Meter, error) {
	env, err := c.do(ctx, http.MethodGet, "/meter", nil, nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Meters []meter.Meter `json:"meters"`
		Count  int           `json:"count"`
	}
	if err := env.decodeData(&data); err != nil {
		return nil, err
	}
	return data.Meters, nil
}

// MeterDetails returns a single meter with its estate and owner linkage.
func (c *Client) MeterDetails(ctx context.Context, id string) (meter.Meter, error) {
	env, err := c.do(ctx, http.MethodGet, "/meter/details/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return meter.Meter{}, err
	}

	var data struct {
		Meter meter.Meter `json:"meter"`
	}
	if err := env.decodeData(&data); err != nil {
		return meter.Meter{}, err
	}
	return data.Meter, nil
}

func (c *Client) MeterStats(ctx context.Context, id string) (MeterStats, error) {
	env, err := c.do(ctx, http.MethodGet, "/meter/stats/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return MeterStats{}, err
	}

	var stats MeterStats
	if err := env.decodeData(&stats); err != nil {
		return MeterStats{}, err
	}
	return stats, nil
}

// GiftGas transfers gas between meters. The request must carry a valid
// gifting OTP.
func (c *Client) GiftGas(ctx context.Context, req GiftRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/meter/gift", nil, req)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// ── Pricing, purchase, wallet ──

func (c *Client) PricePerKg(ctx context.Context) (PricePerKg, error) {
	env, err := c.do(ctx, http.MethodGet, "/settings/price-per-kg", nil, nil)
	if err != nil {
		return PricePerKg{}, err
	}

	var price PricePerKg
	if err := env.decodeData(&price); err != nil {
		return PricePerKg{}, err
	}
	return price, nil
}

// InitializePurchase starts a purchase and returns the hosted-checkout URL
// plus the reference to poll.
func (c *Client) InitializePurchase(ctx context.Context, amount, meterID string) (PurchaseInit, error) {
	env, err := c.do(ctx, http.MethodPost, "/gas-purchase/initialize", nil, map[string]string{
		"amount": amount, "meterId": meterID,
	})
	if err != nil {
		return PurchaseInit{}, err
	}

	var init PurchaseInit
	if err := env.decodeData(&init); err != nil {
		return PurchaseInit{}, err
	}
	return init, nil
}

func (c *Client) GetPurchaseStatus(ctx context.Context, reference string) (PurchaseStatus, error) {
	env, err := c.do(ctx, http.MethodGet, "/gas-purchase/status/"+url.PathEscape(reference), nil, nil)
	if err != nil {
		return PurchaseStatus{}, err
	}

	var status PurchaseStatus
	if err := env.decodeData(&status); err != nil {
		return PurchaseStatus{}, err
	}
	return status, nil
}

func (c *Client) WalletBalance(ctx context.Context) (WalletBalance, error) {
	env, err := c.do(ctx, http.MethodGet, "/wallet/balance", nil, nil)
	if err != nil {
		return WalletBalance{}, err
	}

	var balance WalletBalance
	if err := env.decodeData(&balance); err != nil {
		return WalletBalance{}, err
	}
	return balance, nil
}

// ── Transactions ──

// TransactionsPage is one fetched page with its normalized pagination.
type TransactionsPage struct {
	Transactions []Transaction
	Pagination   Pagination
}

func (c *Client) Transactions(ctx context.Context, page, limit int, filters TransactionFilters) (TransactionsPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.Type != "" {
		params.Set("type", filters.Type)
	}
	if filters.StartDate != "" {
		params.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		params.Set("endDate", filters.EndDate)
	}
	if filters.MinAmount > 0 {
		params.Set("minAmount", strconv.FormatFloat(filters.MinAmount, 'f', -1, 64))
	}
	if filters.MaxAmount > 0 {
		params.Set("maxAmount", strconv.FormatFloat(filters.MaxAmount, 'f', -1, 64))
	}

	env, err := c.do(ctx, http.MethodGet, "/transactions/mine", params, nil)
	if err != nil {
		return TransactionsPage{}, err
	}

	var data struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := env.decodeData(&data); err != nil {
		return TransactionsPage{}, err
	}

	return TransactionsPage{
		Transactions: data.Transactions,
		Pagination:   normalizePagination(env.Data, page, limit),
	}, nil
}

func (c *Client) TransactionStats(ctx context.Context) (TransactionStats, error) {
	env, err := c.do(ctx, http.MethodGet, "/transactions/stats", nil, nil)
	if err != nil {
		return TransactionStats{}, err
	}

	var stats TransactionStats
	if err := env.decodeData(&stats); err != nil {
		return TransactionStats{}, err
	}
	return stats, nil
}

// ── Notifications ──

// NotificationsPage is one fetched page of the notification inbox.
type NotificationsPage struct {
	Notifications []Notification
	Pagination    Pagination
}

func (c *Client) Notifications(ctx context.Context, page, limit int, isRead bool) (NotificationsPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("isRead", strconv.FormatBool(isRead))

	env, err := c.do(ctx, http.MethodGet, "/notifications", params, nil)
	if err != nil {
		return NotificationsPage{}, err
	}

	var data struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := env.decodeData(&data); err != nil {
		return NotificationsPage{}, err
	}

	return NotificationsPage{
		Notifications: data.Notifications,
		Pagination:    normalizePagination(env.Data, page, limit),
	}, nil
}

func (c *Client) NotificationsUnreadCount(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, nil)
	if err != nil {
		return 0, err
	}

	var data struct {
		Count int `json:"count"`
	}
	if err := env.decodeData(&data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
	return err
}

// MarkAllNotificationsRead marks the whole inbox read and returns how many
// notifications were affected.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodPatch, "/notifications/mark-all-read", nil, nil)
	if err != nil {
		return 0, err
	}

	var data struct {
		Count int `json:"count"`
	}
	if len(env.Data) > 0 {
		if err := env.decodeData(&data); err != nil {
			return 0, err
		}
	}
	return data.Count, nil
}

// ── Activities ──

// RecentActivities lists recent usage and transaction events for a meter.
func (c *Client) RecentActivities(ctx context.Context, meterID string) ([]Activity, error) {
	params := url.Values{}
	params.Set("meterId", meterID)

	env, err := c.do(ctx, http.MethodGet, "/user/profile/activities", params, nil)
	if err != nil {
		return nil, err
	}

	var activities []Activity
	if err := env.decodeData(&activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ── Plumbing ──

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (*envelope, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrapf(err, "[Client do] encoding %s %s", method, path)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Client do] building %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAPIUnavailable, "[Client do] %s %s: %v", method, path, err)
	}

	return decodeEnvelope(resp)
}
