package capture

import "sync"

// The decoder and camera source are process-wide capabilities wired in
// once at startup, never looked up ad hoc per call.

var (
	regMu         sync.RWMutex
	defaultDecode Decoder
	defaultSource CameraSource = NoCameraSource()
)

func RegisterDecoder(d Decoder) {
	regMu.Lock()
	defer regMu.Unlock()
	defaultDecode = d
}

func DefaultDecoder() Decoder {
	regMu.RLock()
	defer regMu.RUnlock()
	return defaultDecode
}

func RegisterSource(s CameraSource) {
	regMu.Lock()
	defer regMu.Unlock()
	if s == nil {
		s = NoCameraSource()
	}
	defaultSource = s
}

func DefaultSource() CameraSource {
	regMu.RLock()
	defer regMu.RUnlock()
	return defaultSource
}

// NewDefaultEngine builds an engine on the registered capabilities.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultSource(), DefaultDecoder())
}
