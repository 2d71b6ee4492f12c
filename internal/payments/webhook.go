package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "x-paystack-signature"

var ErrInvalidSignature = errors.New("payments: invalid webhook signature")

// ConstructEvent verifies signature against rawBody with secret and decodes the event.
func ConstructEvent(rawBody []byte, signature, secret string) (Event, error) {
	if secret == "" || signature == "" {
		return Event{}, ErrInvalidSignature
	}
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return Event{}, ErrInvalidSignature
	}
	if !hmac.Equal(given, Sign(rawBody, secret)) {
		return Event{}, ErrInvalidSignature
	}

	var ev Event
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		return Event{}, fmt.Errorf("decode webhook: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("decode webhook: missing event type")
	}
	return ev, nil
}

// Sign computes the raw webhook signature for body.
func Sign(body []byte, secret string) []byte {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// Decode unmarshals the event payload.
func (e Event) Decode() (EventData, error) {
	var d EventData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return EventData{}, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return d, nil
}
