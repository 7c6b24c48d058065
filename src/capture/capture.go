package capture

import (
	"errors"
)

type Facing string

const (
	FACING_ENVIRONMENT Facing = "environment"
	FACING_USER        Facing = "user"
)

// Acquisition failure kinds. Camera sources must return these (wrapped
// or bare) so callers can tell a denied prompt from missing hardware.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoCamera         = errors.New("no camera device found")
	ErrFrameNotReady    = errors.New("video frame not ready")
)

// Frame is one sampled video frame as a raw pixel buffer at the native
// resolution of the stream.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// Stream is a live camera feed owned by exactly one capture session.
// Stop must be safe to call more than once.
type Stream interface {
	// Snapshot returns the current frame, or ErrFrameNotReady when the
	// stream has insufficient buffered data for a sample.
	Snapshot() (*Frame, error)
	Stop()
}

// CameraSource acquires camera streams. It abstracts the platform
// capture capability so the engine can run against fakes in tests and
// on camera-less stations in production.
type CameraSource interface {
	Acquire(facing Facing) (Stream, error)
}

// Decoder turns a frame's pixel buffer into decoded QR text. It
// reports false when the frame contains no recognizable payload.
type Decoder func(pix []byte, width, height int) (string, bool)

type nullSource struct{}

func (nullSource) Acquire(facing Facing) (Stream, error) {
	return nil, ErrNoCamera
}

// NoCameraSource is the source used when no capture hardware has been
// wired in. Every scan attempt fails with ErrNoCamera, which forces
// the verification flow back to manual code entry.
func NoCameraSource() CameraSource {
	return nullSource{}
}
