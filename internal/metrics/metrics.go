package metrics

import "time"

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// RunMetric summarises one invocation.
type RunMetric struct {
	RunID     string
	FileName  string
	DataRows  int
	Value     int64
	Status    string
	Err       error
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Finish stamps the end time and derives the status from err.
func (m *RunMetric) Finish(err error) {
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Err = err
	if err != nil {
		m.Status = StatusFailed
		return
	}
	m.Status = StatusSuccess
}
