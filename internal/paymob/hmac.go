package paymob

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrVerificationDisabled means no HMAC secret is configured, so no callback can be trusted.
	ErrVerificationDisabled = errors.New("paymob callback verification disabled")
	// ErrInvalidSignature means the callback hmac is missing or does not match.
	ErrInvalidSignature = errors.New("paymob callback signature invalid")
)

// signedFields are the transaction fields Paymob signs, in signing order.
var signedFields = []string{
	"amount_cents",
	"created_at",
	"currency",
	"error_occured",
	"has_parent_transaction",
	"id",
	"integration_id",
	"is_3d_secure",
	"is_auth",
	"is_capture",
	"is_refunded",
	"is_standalone_payment",
	"is_voided",
	"order.id",
	"owner",
	"pending",
	"source_data.pan",
	"source_data.sub_type",
	"source_data.type",
	"success",
}

// CallbackFields holds transaction values keyed by their dotted Paymob name.
type CallbackFields map[string]string

// FieldsFromValues reads the redirect callback parameters. The redirect names
// the order id "order"; it is stored as "order.id". Nil when no signed field is present.
func FieldsFromValues(v url.Values) CallbackFields {
	fields := CallbackFields{}
	for _, name := range signedFields {
		key := name
		if name == "order.id" {
			key = "order"
		}
		if vals, ok := v[key]; ok && len(vals) > 0 {
			fields[name] = vals[0]
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// FieldsFromJSON flattens the webhook transaction object.
func FieldsFromJSON(obj json.RawMessage) (CallbackFields, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	fields := CallbackFields{}
	flatten("", raw, fields)
	return fields, nil
}

func flatten(prefix string, m map[string]interface{}, out CallbackFields) {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]interface{}:
			flatten(name, t, out)
		case string:
			out[name] = t
		case bool:
			out[name] = strconv.FormatBool(t)
		case json.Number:
			out[name] = t.String()
		case nil:
			out[name] = ""
		}
	}
}

// Sign returns the hex HMAC-SHA512 of the signed fields concatenated in order.
func Sign(secret string, fields CallbackFields) string {
	var b strings.Builder
	for _, name := range signedFields {
		b.WriteString(fields[name])
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks signature against fields with the configured HMAC secret.
func (c *Client) VerifyCallback(fields CallbackFields, signature string) error {
	if c.cfg.HMACSecret == "" {
		return ErrVerificationDisabled
	}
	if signature == "" || len(fields) == 0 {
		return ErrInvalidSignature
	}
	want := Sign(c.cfg.HMACSecret, fields)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(signature))) {
		return ErrInvalidSignature
	}
	return nil
}
