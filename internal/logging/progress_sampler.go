package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when stages or percentage buckets change.
type ProgressSampler struct {
	step     float64
	stage    string
	nextEmit float64
}

// NewProgressSampler constructs a sampler that emits whenever the percent
// reaches the next step boundary (default 5%) or the stage changes.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 5
	}
	return &ProgressSampler{step: step}
}

// ShouldLog reports whether a progress event should be logged. A negative
// percent means "unknown" and only stage changes emit.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	emit := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.stage {
		s.stage = stage
		s.nextEmit = 0
		emit = true
	}
	if percent >= 0 && percent >= s.nextEmit {
		s.nextEmit = (float64(int(percent/s.step)) + 1) * s.step
		emit = true
	}
	return emit
}

// Reset clears the sampler state so the next build starts fresh.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.stage = ""
	s.nextEmit = 0
}
