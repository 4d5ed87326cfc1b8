package pipeline

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session keeps the result of the most recent successful run so that a
// front end can re-render or export it later. It is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *zap.Logger
	last   *Result
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for per-run debug entries.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRand sets the random source used by the noise stage.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSession creates a session with a nop logger and a randomly seeded
// random source unless options say otherwise.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Update runs the pipeline for p. On success the result replaces the
// stored one; on failure the previous result is kept.
func (s *Session) Update(p Params) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	res, err := Run(p, s.rng)
	if err != nil {
		s.logger.Debug("pipeline run rejected",
			zap.Stringer("variant", p.Variant),
			zap.Error(err),
		)
		return Result{}, err
	}

	s.last = &res
	s.logger.Debug("pipeline run",
		zap.Stringer("variant", p.Variant),
		zap.Float64("frequency_hz", p.FrequencyHz),
		zap.Int("sample_rate_hz", p.SampleRateHz),
		zap.Int("bits", p.Bits),
		zap.Int("samples", res.Sampled.Len()),
		zap.Bool("aliased", res.Metrics.Aliased),
		zap.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

// Last returns the most recent successful result.
func (s *Session) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Snapshot returns the sampled signal of the most recent run.
func (s *Session) Snapshot() (SampledSignal, bool) {
	res, ok := s.Last()
	if !ok {
		return SampledSignal{}, false
	}
	return res.Sampled, true
}

// ExportSnapshot returns the signal a front end writes to disk for the
// most recent run: the smoothed processed signal for Expert runs and the
// sampled signal otherwise. ok is false before the first successful run.
func (s *Session) ExportSnapshot() (sig SampledSignal, ok bool, err error) {
	res, ok := s.Last()
	if !ok {
		return SampledSignal{}, false, nil
	}
	if res.Params.Variant != VariantExpert {
		return res.Sampled, true, nil
	}

	sig, err = ExportSignal(res.Params)
	return sig, true, err
}
