package utils

// Channels the metric goroutines listen on. Sends never block: a value is
// dropped when nobody is collecting.
type Metric struct {
	DatabaseRead    chan float64
	DatabaseWrite   chan float64
	CancelledEvents chan int
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:    make(chan float64, 1),
		DatabaseWrite:   make(chan float64, 1),
		CancelledEvents: make(chan int, 16),
	}
}

func (m *Metric) ReportDatabaseRead(microsec float64) {
	select {
	case m.DatabaseRead <- microsec:
	default:
	}
}

func (m *Metric) ReportDatabaseWrite(microsec float64) {
	select {
	case m.DatabaseWrite <- microsec:
	default:
	}
}

func (m *Metric) ReportCancelledEvents(count int) {
	select {
	case m.CancelledEvents <- count:
	default:
	}
}
