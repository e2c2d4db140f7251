package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TrackTime logs how long a service call took. Use as
// defer TrackTime("Optimize", time.Now()).
func TrackTime(funcName string, start time.Time) {
	elapsed := time.Since(start)
	log.Debugf("%s took %d ms", funcName, elapsed.Milliseconds())
}
