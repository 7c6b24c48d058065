package boot

import (
	"log"

	"pickup/src/capture"
	"pickup/src/common"
	"pickup/src/config"
	"pickup/src/lib"
)

// InitCapture wires the process-wide camera capabilities once at
// startup. A nil source leaves the station camera-less: scan attempts
// fail with a "no camera" error and the flow falls back to code entry.
func InitCapture(source capture.CameraSource, decode capture.Decoder) {
	capture.RegisterSource(source)
	if decode != nil {
		capture.RegisterDecoder(decode)
	}
}

// InitScheduler starts the shared scheduler and arms the idle-session
// sweep so abandoned flows cannot hold a camera open.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}

	ttl := config.GetSessionTTL()
	id, err := lib.CreateCronJob(func() {
		n := common.GetSessionManager().SweepIdle(ttl)
		if n > 0 {
			log.Printf("Session sweep reclaimed %d session(s)\n", n)
		}
	}, ttl/2)
	if err != nil {
		log.Printf("Error creating session sweep job: %s\n", err.Error())
		return
	}
	sched.Start()
	log.Printf("Session sweep job armed: %s\n", *id)
}
