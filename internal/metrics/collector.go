package metrics

import "log"

func Report(l *log.Logger, m RunMetric) {
	l.Println("======================================")
	l.Println("RUN METRICS")
	l.Printf("Run ID      : %s\n", m.RunID)
	l.Printf("File        : %s\n", m.FileName)
	l.Printf("Status      : %s\n", m.Status)
	l.Printf("Data Rows   : %d\n", m.DataRows)
	if m.Status == StatusSuccess {
		l.Printf("Value       : %d\n", m.Value)
	}
	if m.Err != nil {
		l.Printf("Error       : %v\n", m.Err)
	}
	l.Printf("Duration    : %s\n", m.Duration)
	l.Println("======================================")
}
