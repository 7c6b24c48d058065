package common

import (
	"context"
	"errors"
	"sync"
	"time"

	"pickup/src/capture"
	"pickup/src/types"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from current state")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Flow is the dual-mode verification state machine for one physical
// handover: select -> code|scan, scan -> code on any scan failure
// (message retained), either mode -> success, success -> select on
// reset. The machine is re-entered repeatedly for sequential pickups.
type Flow struct {
	ID      uuid.UUID
	Station string

	coord *Coordinator
	auth  string

	mu         sync.Mutex
	state      types.FlowState
	scanError  string
	outcome    *types.VerificationOutcome
	submitting bool
	engine     *capture.Engine
	lastActive time.Time
}

func NewFlow(coord *Coordinator, auth string, station string) *Flow {
	return &Flow{
		ID:         uuid.New(),
		Station:    station,
		coord:      coord,
		auth:       auth,
		state:      types.FLOW_SELECT,
		lastActive: time.Now(),
	}
}

// Snapshot returns the externally visible state of the flow.
func (f *Flow) Snapshot() types.APIResponseSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return types.APIResponseSession{
		ID:        f.ID.String(),
		Station:   f.Station,
		State:     f.state,
		ScanError: f.scanError,
		Outcome:   f.outcome,
	}
}

// ChooseCode switches to manual code entry. A retained scan error
// stays visible so the user keeps their context after a fallback.
func (f *Flow) ChooseCode() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActive = time.Now()
	if f.state != types.FLOW_SELECT && f.state != types.FLOW_SCAN {
		return ErrInvalidTransition
	}
	f.stopEngineLocked()
	f.state = types.FLOW_CODE
	return nil
}

// ChooseScan enters scan mode and starts a capture session on the
// registered camera capabilities. Any start failure immediately falls
// back to code entry with the failure message retained.
func (f *Flow) ChooseScan(facing capture.Facing) error {
	f.mu.Lock()
	if f.state != types.FLOW_SELECT && f.state != types.FLOW_CODE {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	f.lastActive = time.Now()
	f.scanError = ""
	f.state = types.FLOW_SCAN

	engine := capture.NewDefaultEngine()
	engine.OnDecode = func(text string) {
		f.SubmitQr(context.Background(), text)
	}
	f.engine = engine
	f.mu.Unlock()

	if err := engine.Start(facing); err != nil {
		f.mu.Lock()
		f.engine = nil
		f.forceCodeLocked(scanFailureMessage(err))
		f.mu.Unlock()
		return nil
	}

	// The flow may have been switched or closed while the camera was
	// being acquired; a stream without an owning scan state must not
	// stay open.
	f.mu.Lock()
	if f.state != types.FLOW_SCAN || f.engine != engine {
		engine.Stop()
	}
	f.mu.Unlock()
	return nil
}

// SubmitCode drives the manual path. At most one submission may be in
// flight per flow; concurrent attempts are rejected.
func (f *Flow) SubmitCode(ctx context.Context, rawCode string) (types.VerificationOutcome, error) {
	f.mu.Lock()
	if f.state != types.FLOW_CODE {
		f.mu.Unlock()
		return types.VerificationOutcome{}, ErrInvalidTransition
	}
	if f.submitting {
		f.mu.Unlock()
		return types.VerificationOutcome{}, ErrSubmissionInFlight
	}
	f.submitting = true
	f.lastActive = time.Now()
	f.mu.Unlock()

	outcome := f.coord.SubmitCode(ctx, f.auth, rawCode)

	f.mu.Lock()
	f.submitting = false
	f.outcome = &outcome
	if outcome.OK {
		f.state = types.FLOW_SUCCESS
		f.scanError = ""
	}
	f.mu.Unlock()
	return outcome, nil
}

// SubmitQr drives the scan path, both for payloads decoded by the
// capture engine and for payloads decoded on a client device. Any
// failure forces the fallback to code entry with the message retained.
func (f *Flow) SubmitQr(ctx context.Context, rawText string) (types.VerificationOutcome, error) {
	f.mu.Lock()
	if f.state != types.FLOW_SCAN {
		f.mu.Unlock()
		return types.VerificationOutcome{}, ErrInvalidTransition
	}
	if f.submitting {
		f.mu.Unlock()
		return types.VerificationOutcome{}, ErrSubmissionInFlight
	}
	f.submitting = true
	f.lastActive = time.Now()
	f.mu.Unlock()

	outcome := f.coord.SubmitQr(ctx, f.auth, rawText)

	f.mu.Lock()
	f.submitting = false
	f.outcome = &outcome
	if outcome.OK {
		f.stopEngineLocked()
		f.state = types.FLOW_SUCCESS
		f.scanError = ""
	} else {
		f.forceCodeLocked(outcome.Message)
	}
	f.mu.Unlock()
	return outcome, nil
}

// Reset returns a completed flow to the mode selector, clearing all
// transient state so another pickup can be confirmed.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != types.FLOW_SUCCESS {
		return ErrInvalidTransition
	}
	f.lastActive = time.Now()
	f.state = types.FLOW_SELECT
	f.scanError = ""
	f.outcome = nil
	return nil
}

// Close releases any active capture session. Safe from any state and
// more than once; the camera must never outlive the flow.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopEngineLocked()
}

// IdleSince reports the last time the flow saw activity.
func (f *Flow) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

func (f *Flow) forceCodeLocked(msg string) {
	f.stopEngineLocked()
	f.state = types.FLOW_CODE
	f.scanError = msg
}

func (f *Flow) stopEngineLocked() {
	if f.engine != nil {
		f.engine.Stop()
		f.engine = nil
	}
}

func scanFailureMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrPermissionDenied):
		return "Camera permission denied. Please enter the confirmation code manually."
	case errors.Is(err, capture.ErrNoCamera):
		return "No camera found on this device. Please enter the confirmation code manually."
	default:
		return "Could not start the camera. Please enter the confirmation code manually."
	}
}
