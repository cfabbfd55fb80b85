package service

import (
	"time"
)

// SystemClock implements ports.Clock over the wall clock, at second
// precision.
type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
