package model

import "time"

// ModelResult is the single row written per run.
type ModelResult struct {
	RunID      string
	SourceFile string
	Result     int64
	ReadAt     time.Time
}
