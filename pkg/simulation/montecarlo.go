package simulation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/peter-kozarec/kinetics/pkg/kinetics"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxRedraws = 1000
)

var (
	ErrRedrawLimit = errors.New("positivity redraw limit exceeded")
	ErrEof         = errors.New("EOF")
)

// Sampler draws noisy realizations of a model around its prediction at
// fixed design points.
type Sampler struct {
	logger *zap.Logger
	rng    *rand.Rand

	model kinetics.Model
	x     []float64
	truth []float64
	scale float64
	mean  []float64

	positive   bool
	maxRedraws int
	redraws    int
}

type SamplerOption func(*Sampler)

// WithMaxRedraws bounds the number of redraw rounds of the positivity loop.
func WithMaxRedraws(rounds int) SamplerOption {
	return func(s *Sampler) {
		s.maxRedraws = rounds
	}
}

// WithPositivity overrides whether every sampled value must be positive.
// By default this follows the model's linearisation.
func WithPositivity(required bool) SamplerOption {
	return func(s *Sampler) {
		s.positive = required
	}
}

func NewSampler(logger *zap.Logger, rng *rand.Rand, model kinetics.Model, x, truth []float64, scale float64, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		logger:     logger,
		rng:        rng,
		model:      model,
		x:          x,
		truth:      truth,
		scale:      scale,
		mean:       kinetics.EvalAll(model, x, truth),
		positive:   model.RequiresPositive(),
		maxRedraws: DefaultMaxRedraws,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns a len(x) × realizations matrix; every column is an
// independent draw. With positivity required, columns holding a
// non-positive value are redrawn whole until none remain, for at most
// maxRedraws rounds.
func (s *Sampler) Sample(realizations int) (*mat.Dense, error) {
	if realizations < 1 || len(s.x) == 0 {
		return nil, fmt.Errorf("simulation: cannot draw %d realizations at %d design points", realizations, len(s.x))
	}

	s.redraws = 0
	samples := mat.NewDense(len(s.x), realizations, nil)
	for j := 0; j < realizations; j++ {
		s.drawColumn(samples, j)
	}
	if !s.positive {
		return samples, nil
	}

	pending := make([]int, realizations)
	for j := range pending {
		pending[j] = j
	}
	pending = s.nonPositive(samples, pending)

	for round := 0; len(pending) > 0; round++ {
		if round >= s.maxRedraws {
			return nil, fmt.Errorf("%w: %d realizations non-positive after %d rounds", ErrRedrawLimit, len(pending), round)
		}
		for _, j := range pending {
			s.drawColumn(samples, j)
		}
		s.redraws += len(pending)
		pending = s.nonPositive(samples, pending)
	}

	if s.redraws > 0 {
		s.logger.Debug("redrew non-positive realizations",
			zap.String("model", s.model.Name()),
			zap.Int("redraws", s.redraws))
	}
	return samples, nil
}

// Redraws is the number of column redraws made by the last Sample call.
func (s *Sampler) Redraws() int { return s.redraws }

func (s *Sampler) Mean() []float64 { return s.mean }

func (s *Sampler) drawColumn(samples *mat.Dense, j int) {
	for i, m := range s.mean {
		samples.Set(i, j, m+s.scale*s.rng.NormFloat64())
	}
}

// nonPositive filters columns in place, keeping those with a value <= 0.
func (s *Sampler) nonPositive(samples *mat.Dense, columns []int) []int {
	kept := columns[:0]
	for _, j := range columns {
		for i := range s.mean {
			if !(samples.At(i, j) > 0) {
				kept = append(kept, j)
				break
			}
		}
	}
	return kept
}

// Normal draws size values from N(loc, scale²).
func Normal(rng *rand.Rand, loc, scale float64, size int) []float64 {
	values := make([]float64, size)
	for i := range values {
		values[i] = loc + scale*rng.NormFloat64()
	}
	return values
}
