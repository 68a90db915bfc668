package monitor

import "time"

// Status is a point-in-time snapshot of dependency health. The buffer is
// soft: writes degrade into it, so it does not gate Healthy.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether both hard dependencies are reachable.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
