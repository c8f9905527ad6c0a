package service

import "time"

// Settings carries the settlement knobs the services read from configuration.
type Settings struct {
	BatchSize           int
	Workers             int
	LockTTL             time.Duration
	CancellationWindow  time.Duration
	RefundDelay         time.Duration
	CompletionDelay     time.Duration
	MaxProcessingErrors int
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		BatchSize:           200,
		Workers:             8,
		LockTTL:             time.Minute,
		CancellationWindow:  6 * time.Hour,
		RefundDelay:         48 * time.Hour,
		CompletionDelay:     time.Minute,
		MaxProcessingErrors: 10,
	}
}

// withDefaults fills zero values from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.BatchSize <= 0 {
		s.BatchSize = d.BatchSize
	}
	if s.Workers <= 0 {
		s.Workers = d.Workers
	}
	if s.LockTTL <= 0 {
		s.LockTTL = d.LockTTL
	}
	if s.CancellationWindow <= 0 {
		s.CancellationWindow = d.CancellationWindow
	}
	if s.RefundDelay <= 0 {
		s.RefundDelay = d.RefundDelay
	}
	if s.CompletionDelay <= 0 {
		s.CompletionDelay = d.CompletionDelay
	}
	return s
}
