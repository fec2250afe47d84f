package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hexbounce/internal/physics"
)

// shakeEpsilon absorbs float drift when comparing accumulated time against
// scheduled shake times.
const shakeEpsilon = 1e-9

type Simulator struct {
	world     *physics.World
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(world *physics.World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetLogger routes run events (shakes, invalid states) to l.
func (s *Simulator) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Simulator) World() *physics.World { return s.world }

// Run steps the world for cfg.Duration. On cancellation the partial result
// is returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.world.Validate(); err != nil {
		return nil, err
	}

	w := s.world
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.SampleEvery > 0 {
		result.Frames = make([]Frame, 0, steps/cfg.SampleEvery+1)
		result.Frames = append(result.Frames, frameOf(w))
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	schedule := sortedTimes(cfg.ShakeAt)
	next := 0

	s.logger.Debug("run started", "steps", steps, "dt", cfg.Dt, "bodies", len(w.Bodies), "shakes", len(schedule))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		for next < len(schedule) && w.Time+shakeEpsilon >= schedule[next] {
			w.Shake(cfg.ShakeMagnitude)
			result.Shakes++
			s.logger.Debug("shake", "t", w.Time, "magnitude", cfg.ShakeMagnitude)
			next++
		}

		w.Step(cfg.Dt)
		result.StepsTaken++
		result.Contacts += w.LastStats().Contacts()

		if cfg.ValidateState {
			if err := w.CheckState(); err != nil {
				serr := SimError{Time: w.Time, Step: i, Message: err.Error()}
				result.Errors = append(result.Errors, serr)
				s.logger.Error("invalid state", "t", w.Time, "step", i, "err", err)
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnStep(w)
		}

		if cfg.SampleEvery > 0 && (i+1)%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, frameOf(w))
		}
	}

	s.finish(result)
	s.logger.Debug("run finished", "steps", result.StepsTaken, "contacts", result.Contacts)
	return result, nil
}

// RunWithCallback steps the world until cfg.Duration elapses or fn returns
// false. fn sees the world before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(w *physics.World) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	w := s.world
	schedule := sortedTimes(cfg.ShakeAt)
	next := 0
	end := w.Time + cfg.Duration

	for w.Time+shakeEpsilon < end {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !fn(w) {
			return nil
		}

		for next < len(schedule) && w.Time+shakeEpsilon >= schedule[next] {
			w.Shake(cfg.ShakeMagnitude)
			next++
		}

		w.Step(cfg.Dt)

		if cfg.ValidateState {
			if err := w.CheckState(); err != nil {
				return SimError{Time: w.Time, Step: w.Steps, Message: err.Error()}
			}
		}
	}

	return nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", cfg.SampleEvery)
	}
	return nil
}

func frameOf(w *physics.World) Frame {
	return Frame{
		Time:          w.Time,
		Offset:        w.Container.Offset,
		KineticEnergy: w.KineticEnergy(),
		Bodies:        w.Snapshot(),
	}
}

func sortedTimes(ts []float64) []float64 {
	out := make([]float64, len(ts))
	copy(out, ts)
	sort.Float64s(out)
	return out
}
