package types

import "encoding/json"

type FlowState string

const (
	FLOW_SELECT  FlowState = "select"
	FLOW_CODE    FlowState = "code"
	FLOW_SCAN    FlowState = "scan"
	FLOW_SUCCESS FlowState = "success"
)

type VerifyMode string

const (
	MODE_CODE VerifyMode = "code"
	MODE_SCAN VerifyMode = "scan"
)

// VerificationOutcome is the normalized result of a single submission
// attempt. Data is the opaque confirmation payload returned by the
// backend on success; it is never interpreted beyond display needs.
type VerificationOutcome struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type CreateSessionRequestBody struct {
	Station string `json:"station,omitempty"`
}

type SwitchModeRequestBody struct {
	Mode VerifyMode `json:"mode" binding:"required,oneof=code scan"`
}

type VerifyCodeRequestBody struct {
	ConfirmationCode string `json:"confirmation_code" binding:"required,confirmationcode"`
}

type VerifyQrRequestBody struct {
	QrData string `json:"qr_data" binding:"required"`
}

type CompleteRequestBody struct {
	RequestID        uint   `json:"request_id" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,confirmationcode"`
}

type SessionURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type APIResponseSession struct {
	ID        string               `json:"id"`
	Station   string               `json:"station,omitempty"`
	State     FlowState            `json:"state"`
	ScanError string               `json:"scan_error,omitempty"`
	Outcome   *VerificationOutcome `json:"outcome,omitempty"`
}
