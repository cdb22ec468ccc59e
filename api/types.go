package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UserProfile mirrors /user/profile.
type UserProfile struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	Username            string `json:"username,omitempty"`
	PhoneNumber         string `json:"phoneNumber,omitempty"`
	Avatar              string `json:"avatar,omitempty"`
	Country             string `json:"country,omitempty"`
	ReferralCode        string `json:"referralCode,omitempty"`
	IsActive            bool   `json:"isActive"`
	EmailVerified       bool   `json:"emailVerified"`
	Role                string `json:"role"`
	Gender              string `json:"gender,omitempty"`
	NIN                 string `json:"nin,omitempty"`
	EstateID            string `json:"estateId,omitempty"`
	HouseNumber         string `json:"houseNumber,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	CreatedAt           string `json:"createdAt,omitempty"`
	UpdatedAt           string `json:"updatedAt,omitempty"`
}

// Estate mirrors one element of /estate.
type Estate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// OnboardingRequest is the PUT /user/profile/onboarding payload.
type OnboardingRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	NIN         string `json:"nin"`
	EstateID    string `json:"estateId"`
	HouseNumber string `json:"houseNumber"`
	EstateName  string `json:"estateName,omitempty"`
}

// VerifyOTPResult is the data of a successful POST /otp/verify. The token
// and onboarding flag seed the local session.
type VerifyOTPResult struct {
	Type                string `json:"type"`
	Validated           bool   `json:"validated"`
	Token               string `json:"token"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
}

// OTP purposes accepted by /otp/generate and /otp/verify.
const (
	OTPSignupVerification      = "signup_verification"
	OTPLoginDeviceVerification = "login_device_verification"
	OTPGasGiftingAuthorization = "gas_gifting_authorization"
)

// MeterStats mirrors /meter/stats/:id.
type MeterStats struct {
	RemainingKg  string        `json:"remainingKg"`
	UsedToday    string        `json:"usedToday"`
	UsedThisWeek string        `json:"usedThisWeek"`
	WeeklySeries []WeeklyUsage `json:"weeklySeries,omitempty"`
}

// WeeklyUsage is one point of the weekly usage series.
type WeeklyUsage struct {
	Day    string `json:"day"`
	UsedKg string `json:"usedKg"`
}

// GiftRequest is the POST /meter/gift payload. The transfer is OTP-gated.
type GiftRequest struct {
	SourceMeterID        string  `json:"sourceMeterId"`
	RecipientMeterNumber string  `json:"recipientMeterNumber"`
	AmountKg             float64 `json:"amountKg"`
	OTP                  string  `json:"otp"`
}

// PricePerKg mirrors /settings/price-per-kg.
type PricePerKg struct {
	GasPricePerKg string `json:"gasPricePerKg"`
	Currency      string `json:"currency"`
}

// WalletBalance mirrors /wallet/balance.
type WalletBalance struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// PurchaseInit is the data of POST /gas-purchase/initialize: the hosted
// checkout to send the user to, and the reference to poll afterwards.
type PurchaseInit struct {
	AuthorizationURL string  `json:"authorizationUrl"`
	Reference        string  `json:"reference"`
	KgPurchased      float64 `json:"kgPurchased"`
}

// PurchaseStatus mirrors /gas-purchase/status/:ref.
type PurchaseStatus struct {
	Reference         string  `json:"reference"`
	PaymentStatus     string  `json:"paymentStatus"`
	PurchaseStatus    string  `json:"purchaseStatus"`
	Amount            float64 `json:"amount"`
	KgPurchased       string  `json:"kgPurchased"`
	MeterNumber       string  `json:"meterNumber"`
	MqttCommandSent   bool    `json:"mqttCommandSent"`
	RefillStartedAt   string  `json:"refillStartedAt,omitempty"`
	RefillCompletedAt string  `json:"refillCompletedAt,omitempty"`
	KgDispensed       string  `json:"kgDispensed,omitempty"`
	CreatedAt         string  `json:"createdAt,omitempty"`
}

// Payment statuses that end purchase polling.
const (
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Terminal reports whether the payment reached a final state.
func (ps PurchaseStatus) Terminal() bool {
	return ps.PaymentStatus == PaymentStatusSuccess || ps.PaymentStatus == PaymentStatusFailed
}

// Transaction mirrors one element of /transactions/mine. Metadata arrives
// in two shapes (direct purchase metadata, or a payment-gateway webhook
// wrapping it) and is kept raw until asked for.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	WalletID    string          `json:"walletId,omitempty"`
	Amount      string          `json:"amount"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference"`
	Provider    string          `json:"provider"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// KgPurchased extracts the purchased kilograms from either metadata shape:
// flat `{kgPurchased, ...}` or gateway-wrapped `{metadata: {kgPurchased}}`.
// Returns "" when neither is present.
func (t Transaction) KgPurchased() string {
	if len(t.Metadata) == 0 {
		return ""
	}

	var flat struct {
		KgPurchased string `json:"kgPurchased"`
		Metadata    struct {
			KgPurchased string `json:"kgPurchased"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(t.Metadata, &flat); err != nil {
		return ""
	}
	if flat.KgPurchased != "" {
		return flat.KgPurchased
	}
	return flat.Metadata.KgPurchased
}

// DisplayType renders the transaction type for the UI and for local search:
// "GAS_PURCHASE" → "Gas Purchase".
func (t Transaction) DisplayType() string {
	return titleCase(strings.ReplaceAll(t.Type, "_", " "))
}

// DisplayAmount renders the minor-unit amount as naira, e.g. "₦1,500.00".
func (t Transaction) DisplayAmount() string {
	return FormatNaira(t.Amount)
}

// TransactionStats mirrors /transactions/stats.
type TransactionStats struct {
	TotalSpentAllTime           string  `json:"totalSpentAllTime"`
	TotalSpentLast30d           string  `json:"totalSpentLast30d"`
	TotalTransactions           int     `json:"totalTransactions"`
	PercentageIncreasePastMonth float64 `json:"percentageIncreasePastMonth"`
	TotalGasPurchasedKgLast30d  string  `json:"totalGasPurchasedKgLast30d"`
}

// TransactionFilters are the server-side filters for /transactions/mine.
// They form part of the pagination query key: changing any of them resets
// accumulated pages.
type TransactionFilters struct {
	Status    string
	Type      string
	StartDate string
	EndDate   string
	MinAmount float64
	MaxAmount float64
}

// Key renders the filters in a stable form usable as a query-key component.
func (f TransactionFilters) Key() string {
	return strings.Join([]string{
		f.Status, f.Type, f.StartDate, f.EndDate,
		strconv.FormatFloat(f.MinAmount, 'f', -1, 64),
		strconv.FormatFloat(f.MaxAmount, 'f', -1, 64),
	}, "|")
}

// Notification mirrors one element of /notifications.
type Notification struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsRead      bool   `json:"isRead"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Activity is one element of /user/profile/activities: either a gas-usage
// event or a transaction, discriminated by Type.
type Activity struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// GAS_USAGE fields
	KgUsed          string `json:"kgUsed,omitempty"`
	DeviceID        string `json:"deviceId,omitempty"`
	PreviousBalance string `json:"previousBalance,omitempty"`
	NewBalance      string `json:"newBalance,omitempty"`

	// TRANSACTION fields
	ActivityType string  `json:"activityType,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	Status       string  `json:"status,omitempty"`
	Description  string  `json:"description,omitempty"`

	CreatedAt string          `json:"createdAt"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

const (
	ActivityGasUsage    = "GAS_USAGE"
	ActivityTransaction = "TRANSACTION"
)

// FormatNaira renders a minor-unit amount string as naira with two decimal
// places and thousands separators. Unparseable input is returned verbatim.
func FormatNaira(minor string) string {
	value, err := strconv.ParseFloat(minor, 64)
	if err != nil {
		return minor
	}
	return "₦" + groupThousands(fmt.Sprintf("%.2f", value/100))
}

func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
