package mpesa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const ResultSuccess = 0

// Code accepts both the numeric and the quoted form Daraja uses for result codes.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	*c = Code(data)
	return nil
}

func (c Code) Int() (int, error) {
	return strconv.Atoi(string(c))
}

type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

func (cb STKCallback) item(name string) (any, bool) {
	if cb.CallbackMetadata == nil {
		return nil, false
	}
	for _, it := range cb.CallbackMetadata.Item {
		if it.Name == name {
			return it.Value, true
		}
	}
	return nil, false
}

func (cb STKCallback) ReceiptNumber() string {
	v, ok := cb.item("MpesaReceiptNumber")
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (cb STKCallback) PhoneNumber() string {
	v, ok := cb.item("PhoneNumber")
	if !ok || v == nil {
		return ""
	}
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 0, 64)
	case json.Number:
		return n.String()
	}
	return fmt.Sprint(v)
}
