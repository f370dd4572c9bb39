// Package mpesa is a client for the Safaricom Daraja STK-Push API.
package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/GlebRadaev/afriart/pkg/clients"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	tokenPath = "/oauth/v1/generate?grant_type=client_credentials"
	pushPath  = "/mpesa/stkpush/v1/processrequest"
	queryPath = "/mpesa/stkpushquery/v1/query"

	transactionType = "CustomerPayBillOnline"
	timestampLayout = "20060102150405"

	// stillProcessingCode is the query error Daraja returns while the
	// customer has not yet answered the prompt.
	stillProcessingCode = "500.001.1001"
)

var (
	ErrTimeout      = errors.New("mpesa request timed out")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var nairobi = time.FixedZone("EAT", 3*60*60)

type ProviderError struct {
	Stage      string
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mpesa %s failed: %s (%s)", e.Stage, e.Message, e.Code)
	}
	return fmt.Sprintf("mpesa %s failed: %s", e.Stage, e.Message)
}

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
}

type Client struct {
	cfg    Config
	client clients.HTTPClientI
	now    func() time.Time
}

func New(cfg Config, client clients.HTTPClientI) *Client {
	return &Client{
		cfg:    cfg,
		client: client,
		now:    time.Now,
	}
}

type STKPushRequest struct {
	Phone            string
	Amount           int64
	AccountReference string
	Description      string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// QueryResult is the outcome of an STK status query. Pending means the
// customer has not completed the prompt yet.
type QueryResult struct {
	Pending    bool
	ResultCode int
	ResultDesc string
}

type errorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

type stkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type queryPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type queryResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	ResultCode          Code   `json:"ResultCode"`
	ResultDesc          string `json:"ResultDesc"`
	errorResponse
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	credentials := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	headers := http.Header{"Authorization": {"Basic " + credentials}}

	status, body, _, err := c.client.Get(ctx, c.cfg.BaseURL+tokenPath, headers)
	if err != nil {
		return "", transportError("auth", err)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		errorResponse
	}
	if err := json.Unmarshal(body, &resp); err != nil || status != http.StatusOK || resp.AccessToken == "" {
		return "", providerError("auth", status, resp.errorResponse, body)
	}
	return resp.AccessToken, nil
}

// STKPush asks the provider to prompt the customer's handset for payment.
// It is never retried.
func (c *Client) STKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(c.now())
	payload := stkPushPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          Password(c.cfg.ShortCode, c.cfg.PassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            req.Amount,
		PartyA:            req.Phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       req.Phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}

	status, body, err := c.postJSON(ctx, pushPath, token, payload)
	if err != nil {
		return nil, transportError("stk push", err)
	}

	var resp struct {
		STKPushResponse
		errorResponse
	}
	if err := json.Unmarshal(body, &resp); err != nil || status != http.StatusOK || resp.ResponseCode != "0" {
		if resp.ErrorMessage == "" && resp.ResponseDescription != "" {
			resp.ErrorMessage = resp.ResponseDescription
			resp.ErrorCode = resp.ResponseCode
		}
		return nil, providerError("stk push", status, resp.errorResponse, body)
	}

	zap.L().Info("stk push accepted",
		zap.String("checkoutRequestID", resp.CheckoutRequestID),
		zap.String("merchantRequestID", resp.MerchantRequestID),
	)
	return &resp.STKPushResponse, nil
}

func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*QueryResult, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := Timestamp(c.now())
	payload := queryPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          Password(c.cfg.ShortCode, c.cfg.PassKey, timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	status, body, err := c.postJSON(ctx, queryPath, token, payload)
	if err != nil {
		return nil, transportError("stk query", err)
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, providerError("stk query", status, errorResponse{}, body)
	}
	if resp.ErrorCode == stillProcessingCode {
		return &QueryResult{Pending: true, ResultDesc: resp.ErrorMessage}, nil
	}
	if status != http.StatusOK || resp.ResultCode == "" {
		return nil, providerError("stk query", status, resp.errorResponse, body)
	}

	code, err := resp.ResultCode.Int()
	if err != nil {
		return nil, &ProviderError{Stage: "stk query", StatusCode: status, Message: "unexpected result code " + string(resp.ResultCode)}
	}
	return &QueryResult{ResultCode: code, ResultDesc: resp.ResultDesc}, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	headers := http.Header{
		"Authorization": {"Bearer " + token},
		"Content-Type":  {"application/json"},
	}
	status, body, _, err := c.client.Post(ctx, c.cfg.BaseURL+path, headers, data)
	return status, body, err
}

func transportError(stage string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s", ErrTimeout, stage)
	}
	return &ProviderError{Stage: stage, Message: err.Error()}
}

func providerError(stage string, status int, resp errorResponse, body []byte) error {
	msg := resp.ErrorMessage
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ProviderError{Stage: stage, StatusCode: status, Code: resp.ErrorCode, Message: msg}
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

func Timestamp(t time.Time) string {
	return t.In(nairobi).Format(timestampLayout)
}

// NormalizePhone converts 07XXXXXXXX, +2547XXXXXXXX and 2547XXXXXXXX to the
// 12 digit 254 form the API expects.
func NormalizePhone(phone string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		p = "254" + p[1:]
	}
	if len(p) != 12 || !strings.HasPrefix(p, "254") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
		}
	}
	return p, nil
}

// WholeShillings rounds amount up; the API only takes integers.
func WholeShillings(amount decimal.Decimal) int64 {
	return amount.Ceil().IntPart()
}
