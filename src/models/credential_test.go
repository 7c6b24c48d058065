package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCredential(t *testing.T) {
	cred, err := NewCredential("ab12cd")
	assert.Nil(t, err)
	assert.Equal(t, "AB12CD", cred.Code)

	upper, err := NewCredential("AB12CD")
	assert.Nil(t, err)
	assert.Equal(t, cred.Code, upper.Code)

	trimmed, err := NewCredential("  qq7x2m ")
	assert.Nil(t, err)
	assert.Equal(t, "QQ7X2M", trimmed.Code)
}

func TestNewCredentialRejectsBadShapes(t *testing.T) {
	_, err := NewCredential("")
	assert.ErrorIs(t, err, ErrEmptyCode)

	_, err = NewCredential("   ")
	assert.ErrorIs(t, err, ErrEmptyCode)

	_, err = NewCredential("AB12C")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = NewCredential("AB12CDE")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = NewCredential("AB-2CD")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestParseQRPayload(t *testing.T) {
	text := `{"type":"FOOD_DONATION_PICKUP","confirmationCode":"QQ7X2M","requestId":42}`
	payload, err := ParseQRPayload(text)
	assert.Nil(t, err)
	assert.Equal(t, QR_PAYLOAD_TYPE, payload.Type)
	assert.Equal(t, text, payload.Raw, "payload must be kept verbatim for forwarding")
}

func TestParseQRPayloadRejectsForeignType(t *testing.T) {
	_, err := ParseQRPayload(`{"type":"SOME_OTHER_APP"}`)
	assert.ErrorIs(t, err, ErrForeignQRCode)

	// Valid JSON with a missing or non-string discriminator is still a
	// foreign QR code, not a format failure.
	_, err = ParseQRPayload(`{"type":123}`)
	assert.ErrorIs(t, err, ErrForeignQRCode)

	_, err = ParseQRPayload(`{"url":"https://example.com"}`)
	assert.ErrorIs(t, err, ErrForeignQRCode)
}

func TestParseQRPayloadRejectsMalformedText(t *testing.T) {
	_, err := ParseQRPayload("https://example.com/some-random-link")
	assert.ErrorIs(t, err, ErrInvalidQRData)

	_, err = ParseQRPayload("")
	assert.ErrorIs(t, err, ErrInvalidQRData)
}
