package common

import (
	"context"
	"errors"
	"log"

	"pickup/src/lib"
	"pickup/src/models"
	"pickup/src/types"
)

// User-facing failure messages. Backend rejections carry their own
// message and are surfaced verbatim; these cover everything decided
// client-side plus the generic fallback.
const (
	MSG_EMPTY_CODE        = "Please enter the confirmation code."
	MSG_INVALID_CODE      = "The confirmation code must be 6 letters or digits."
	MSG_INVALID_QR_FORMAT = "Invalid QR code format. Please enter the confirmation code manually."
	MSG_FOREIGN_QR        = "Invalid QR code. Please scan the correct pickup QR code."
	MSG_CONFIRM_FAILED    = "Failed to confirm pickup. Please try again."
)

// Coordinator is the single choke point turning a user-supplied
// credential of either form into one backend submission and a
// normalized outcome. It does not debounce; callers must keep at most
// one submission in flight.
type Coordinator struct {
	// OnConfirmed is invoked with the opaque confirmation payload after
	// every successful submission, to drive the rating-prompt flow.
	OnConfirmed func(data []byte)
}

var coordinator *Coordinator

func GetCoordinator() *Coordinator {
	if coordinator != nil {
		return coordinator
	}
	coordinator = &Coordinator{OnConfirmed: NotifyRatingPrompt}
	return coordinator
}

func NewCoordinator(c *Coordinator) *Coordinator {
	coordinator = c
	return coordinator
}

// SubmitCode validates the shape of a raw confirmation code, then
// submits it uppercased. Empty or malformed codes never reach the
// network.
func (c *Coordinator) SubmitCode(ctx context.Context, auth string, rawCode string) types.VerificationOutcome {
	cred, err := models.NewCredential(rawCode)
	if err != nil {
		if errors.Is(err, models.ErrEmptyCode) {
			return types.VerificationOutcome{Message: MSG_EMPTY_CODE}
		}
		return types.VerificationOutcome{Message: MSG_INVALID_CODE}
	}
	api := lib.GetBackendClient()
	res, err := api.CompleteByCode(ctx, auth, cred.Code)
	return c.finish(res, err)
}

// SubmitCodeForRequest is the per-request-scoped variant of SubmitCode.
func (c *Coordinator) SubmitCodeForRequest(ctx context.Context, auth string, requestID uint, rawCode string) types.VerificationOutcome {
	cred, err := models.NewCredential(rawCode)
	if err != nil {
		if errors.Is(err, models.ErrEmptyCode) {
			return types.VerificationOutcome{Message: MSG_EMPTY_CODE}
		}
		return types.VerificationOutcome{Message: MSG_INVALID_CODE}
	}
	api := lib.GetBackendClient()
	res, err := api.CompleteRequest(ctx, auth, requestID, cred.Code)
	return c.finish(res, err)
}

// SubmitQr parses decoded QR text, enforces the pickup sentinel, and
// forwards matching payloads verbatim. Unparseable or foreign payloads
// fail without a network call; callers fall back to code entry.
func (c *Coordinator) SubmitQr(ctx context.Context, auth string, rawText string) types.VerificationOutcome {
	payload, err := models.ParseQRPayload(rawText)
	if err != nil {
		if errors.Is(err, models.ErrForeignQRCode) {
			return types.VerificationOutcome{Message: MSG_FOREIGN_QR}
		}
		return types.VerificationOutcome{Message: MSG_INVALID_QR_FORMAT}
	}
	api := lib.GetBackendClient()
	res, err := api.CompleteByQR(ctx, auth, payload.Raw)
	return c.finish(res, err)
}

func (c *Coordinator) finish(res *lib.APIResult, err error) types.VerificationOutcome {
	if err != nil {
		log.Printf("Error submitting credential: %s\n", err.Error())
		return types.VerificationOutcome{Message: MSG_CONFIRM_FAILED}
	}
	if !res.OK() {
		msg := res.Message()
		if msg == "" {
			msg = MSG_CONFIRM_FAILED
		}
		return types.VerificationOutcome{Message: msg}
	}
	data := res.Data()
	if c.OnConfirmed != nil {
		c.OnConfirmed(data)
	}
	return types.VerificationOutcome{OK: true, Message: res.Message(), Data: data}
}
