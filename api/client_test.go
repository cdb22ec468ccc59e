package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	client, err := api.NewClient(backend.URL, 5*time.Second, nil)
	require.NoError(t, err)
	return client
}

func TestVerifyOTP(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/otp/verify", r.URL.Path)
		w.Write([]byte(`{"status":"success","message":"OTP verified","data":{
			"type":"login_device_verification","validated":true,
			"token":"jwt-abc","onboardingCompleted":false}}`))
	})

	result, err := client.VerifyOTP(context.Background(), "ada@example.com", "123456", api.OTPLoginDeviceVerification)
	require.NoError(t, err)
	require.True(t, result.Validated)
	require.Equal(t, "jwt-abc", result.Token)
	require.False(t, result.OnboardingCompleted)
}

func TestMetersEmptyListIsValid(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"ok","data":{"meters":[],"count":0}}`))
	})

	meters, err := client.Meters(context.Background())
	require.NoError(t, err)
	require.Empty(t, meters)
}

func TestMeters(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meter", r.URL.Path)
		w.Write([]byte(`{"status":"success","message":"ok","data":{"meters":[
			{"id":"m1","meterNumber":"MTR-001","availableGasKg":"4.200"},
			{"id":"m2","meterNumber":"MTR-002","availableGasKg":"0.000"}],"count":2}}`))
	})

	meters, err := client.Meters(context.Background())
	require.NoError(t, err)
	require.Len(t, meters, 2)
	require.Equal(t, "MTR-001", meters[0].MeterNumber)
	require.Equal(t, "4.200", meters[0].AvailableGasKg)
}

func TestTransactionsNormalizesFlatShape(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "SUCCESS", r.URL.Query().Get("status"))
		w.Write([]byte(`{"status":"success","message":"ok","data":{
			"transactions":[{"id":"t3","amount":"150000","type":"GAS_PURCHASE",
				"status":"SUCCESS","reference":"ref-3","provider":"paystack",
				"description":"Gas purchase","createdAt":"2026-08-01T10:00:00Z"}],
			"total":5,"page":2,"limit":2}}`))
	})

	page, err := client.Transactions(context.Background(), 2, 2, api.TransactionFilters{Status: "SUCCESS"})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	require.Equal(t, 2, page.Pagination.Page)
	require.Equal(t, 3, page.Pagination.TotalPages)
	require.True(t, page.Pagination.HasNext())
}

func TestNotificationsNormalizesNestedShape(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notifications", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("isRead"))
		w.Write([]byte(`{"status":"success","message":"ok","data":{
			"notifications":[{"id":"n1","title":"Refill complete","isRead":false,
				"category":"GAS_PURCHASE","createdAt":"2026-08-01T10:00:00Z"}],
			"pagination":{"total":1,"page":1,"limit":10,"totalPages":1}}}`))
	})

	page, err := client.Notifications(context.Background(), 1, 10, false)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	require.False(t, page.Pagination.HasNext())
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"Insufficient gas balance"}`))
	})

	_, err := client.GiftGas(context.Background(), api.GiftRequest{})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "Insufficient gas balance")
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Token expired"}`))
	})

	_, err := client.Profile(context.Background())
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUnreachableBackend(t *testing.T) {
	client, err := api.NewClient("http://127.0.0.1:1", time.Second, nil)
	require.NoError(t, err)

	_, err = client.WalletBalance(context.Background())
	require.ErrorIs(t, err, apperrors.ErrAPIUnavailable)
}
