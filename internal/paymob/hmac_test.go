package paymob

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionFields() CallbackFields {
	return CallbackFields{
		"amount_cents":           "46197",
		"created_at":             "2025-01-01T10:00:00.000000",
		"currency":               "EGP",
		"error_occured":          "false",
		"has_parent_transaction": "false",
		"id":                     "77",
		"integration_id":         "123",
		"is_3d_secure":           "true",
		"is_auth":                "false",
		"is_capture":             "false",
		"is_refunded":            "false",
		"is_standalone_payment":  "true",
		"is_voided":              "false",
		"order.id":               "42",
		"owner":                  "9",
		"pending":                "false",
		"source_data.pan":        "2346",
		"source_data.sub_type":   "MasterCard",
		"source_data.type":       "card",
		"success":                "true",
	}
}

func TestSign_ConcatenatesFieldsInPaymobOrder(t *testing.T) {
	concatenated := "46197" + "2025-01-01T10:00:00.000000" + "EGP" + "false" + "false" + "77" + "123" +
		"true" + "false" + "false" + "false" + "true" + "false" + "42" + "9" + "false" +
		"2346" + "MasterCard" + "card" + "true"
	mac := hmac.New(sha512.New, []byte("secret"))
	mac.Write([]byte(concatenated))

	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), Sign("secret", transactionFields()))
}

func TestClient_VerifyCallback(t *testing.T) {
	fields := transactionFields()
	good := Sign("secret", fields)

	tampered := transactionFields()
	tampered["order.id"] = "43"

	tests := []struct {
		name      string
		secret    string
		fields    CallbackFields
		signature string
		wantErr   error
	}{
		{"valid", "secret", fields, good, nil},
		{"uppercase hex accepted", "secret", fields, strings.ToUpper(good), nil},
		{"no secret configured", "", fields, good, ErrVerificationDisabled},
		{"missing signature", "secret", fields, "", ErrInvalidSignature},
		{"no fields", "secret", nil, good, ErrInvalidSignature},
		{"tampered field", "secret", tampered, good, ErrInvalidSignature},
		{"wrong secret", "other", fields, good, ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(Config{HMACSecret: tt.secret})
			err := c.VerifyCallback(tt.fields, tt.signature)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFieldsFromJSON_MatchesRedirectValues(t *testing.T) {
	obj := json.RawMessage(`{"amount_cents":46197,"created_at":"2025-01-01T10:00:00.000000","currency":"EGP",` +
		`"error_occured":false,"has_parent_transaction":false,"id":77,"integration_id":123,"is_3d_secure":true,` +
		`"is_auth":false,"is_capture":false,"is_refunded":false,"is_standalone_payment":true,"is_voided":false,` +
		`"order":{"id":42},"owner":9,"pending":false,` +
		`"source_data":{"pan":"2346","sub_type":"MasterCard","type":"card"},"success":true}`)

	fromJSON, err := FieldsFromJSON(obj)
	require.NoError(t, err)

	values := url.Values{}
	for name, v := range transactionFields() {
		if name == "order.id" {
			name = "order"
		}
		values.Set(name, v)
	}
	values.Set("hmac", "ignored")
	fromQuery := FieldsFromValues(values)

	assert.Equal(t, Sign("secret", fromQuery), Sign("secret", fromJSON))
	assert.Equal(t, transactionFields(), fromQuery)
}

func TestFieldsFromValues_NoSignedFields(t *testing.T) {
	assert.Nil(t, FieldsFromValues(url.Values{"hmac": {"x"}}))
}

func TestFieldsFromJSON_Malformed(t *testing.T) {
	_, err := FieldsFromJSON(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}
