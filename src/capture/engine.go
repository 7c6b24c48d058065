package capture

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"pickup/src/config"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Engine samples a live camera feed for zero-or-one decodable QR
// payloads, then stops itself. At most one decode event is emitted per
// session; the stream is released before the event is delivered.
type Engine struct {
	ID uuid.UUID

	// OnDecode receives the decoded payload text exactly once.
	OnDecode func(text string)
	// OnError receives sampling errors other than a not-ready frame.
	OnError func(err error)

	source CameraSource
	decode Decoder

	mu      sync.Mutex
	stream  Stream
	sched   gocron.Scheduler
	started bool
	stopped bool
	decoded bool
	lastErr error
}

func NewEngine(source CameraSource, decode Decoder) *Engine {
	if source == nil {
		source = NoCameraSource()
	}
	return &Engine{
		ID:     uuid.New(),
		source: source,
		decode: decode,
	}
}

// Start acquires the camera with the preferred facing hint and arms
// the periodic sampling job. A session that was already stopped cannot
// be started. Acquisition failures keep their kind
// (ErrPermissionDenied, ErrNoCamera) so callers can branch on them;
// anything else is reported as a generic start failure.
func (e *Engine) Start(facing Facing) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("capture session already stopped")
	}
	if e.started {
		return errors.New("capture session already started")
	}

	stream, err := e.source.Acquire(facing)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNoCamera) {
			return err
		}
		return fmt.Errorf("camera start failed: %w", err)
	}
	if e.decode == nil {
		stream.Stop()
		return errors.New("no QR decoder has been registered")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		stream.Stop()
		return fmt.Errorf("camera start failed: %w", err)
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(config.SAMPLE_INTERVAL),
		gocron.NewTask(e.sample),
	); err != nil {
		stream.Stop()
		return fmt.Errorf("camera start failed: %w", err)
	}
	sched.Start()

	e.stream = stream
	e.sched = sched
	e.started = true
	log.Printf("[capture] session %s started (facing=%s)\n", e.ID.String(), facing)
	return nil
}

// sample runs on every tick of the sampling job. A not-ready frame is
// skipped; the first successfully decoded frame stops the session and
// hands the payload text to OnDecode. Overlapping ticks are a benign
// race: claiming the decode under the session lock keeps the event
// at-most-once.
func (e *Engine) sample() {
	e.mu.Lock()
	if e.stopped || e.decoded {
		e.mu.Unlock()
		return
	}
	stream := e.stream
	e.mu.Unlock()

	frame, err := stream.Snapshot()
	if err != nil {
		if errors.Is(err, ErrFrameNotReady) {
			return
		}
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		if e.OnError != nil {
			e.OnError(err)
		}
		return
	}

	text, ok := e.decode(frame.Pix, frame.Width, frame.Height)
	if !ok {
		return
	}

	e.mu.Lock()
	if e.stopped || e.decoded {
		e.mu.Unlock()
		return
	}
	e.decoded = true
	e.stopLocked()
	e.mu.Unlock()

	if e.OnDecode != nil {
		e.OnDecode(text)
	}
}

// Stop releases the camera stream and cancels the sampling job. It is
// idempotent and safe to call from any state, including before Start
// and after a successful decode.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.stopped {
		return
	}
	e.stopped = true
	if e.stream != nil {
		e.stream.Stop()
	}
	if e.sched != nil {
		// Shutdown waits on running jobs, so it cannot run inline on
		// the sampling path. The stopped flag already gates any tick
		// that fires during teardown.
		sched := e.sched
		go func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("[capture] session %s scheduler shutdown: %s\n", e.ID.String(), err.Error())
			}
		}()
	}
	log.Printf("[capture] session %s stopped\n", e.ID.String())
}

// Stopped reports whether the session has released its resources.
func (e *Engine) Stopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// LastError returns the most recent sampling error, if any.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
