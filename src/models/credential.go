package models

import (
	"errors"
	"regexp"
	"strings"

	"pickup/src/config"

	"github.com/tidwall/gjson"
)

// QR_PAYLOAD_TYPE is the discriminator value the backend stamps into
// every pickup QR payload. Payloads carrying any other value are
// foreign QR codes, not pickup credentials.
const QR_PAYLOAD_TYPE = "FOOD_DONATION_PICKUP"

var (
	ErrEmptyCode     = errors.New("confirmation code is empty")
	ErrInvalidCode   = errors.New("confirmation code must be 6 alphanumeric characters")
	ErrInvalidQRData = errors.New("QR payload is not valid JSON")
	ErrForeignQRCode = errors.New("QR payload does not belong to the pickup domain")
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// Credential is the proof of pickup in its code form, always held
// normalized. Both credential forms resolve server-side to exactly one
// pending approved request; the client only checks shape.
type Credential struct {
	Code string `json:"confirmationCode"`
}

// NewCredential validates the shape of a raw confirmation code and
// returns it trimmed and uppercased.
func NewCredential(raw string) (*Credential, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if len(code) != config.CODE_LENGTH || !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}
	return &Credential{Code: strings.ToUpper(code)}, nil
}

// QRPayload is the structured form of a pickup credential. Only Type
// is interpreted client-side; Raw is forwarded to the backend verbatim
// so that fields this client does not know about survive the trip.
type QRPayload struct {
	Type string `json:"type"`

	Raw string `json:"-"`
}

// ParseQRPayload parses decoded QR text and enforces the sentinel. The
// discriminator is read loosely: any payload that is valid JSON but does
// not carry the sentinel in its type field is a foreign QR code, even
// when the field is missing or holds a non-string value.
func ParseQRPayload(text string) (*QRPayload, error) {
	if !gjson.Valid(text) {
		return nil, ErrInvalidQRData
	}
	if gjson.Get(text, "type").String() != QR_PAYLOAD_TYPE {
		return nil, ErrForeignQRCode
	}
	return &QRPayload{Type: QR_PAYLOAD_TYPE, Raw: text}, nil
}
