package elements

import (
	"context"
	"math/rand"
	"time"

	"github.com/kbukum/conduit/element"
	"github.com/kbukum/conduit/stream"
)

// RandomConfig configures the random source element.
type RandomConfig struct {
	// Seed makes the sequence reproducible when set.
	Seed *int64 `mapstructure:"seed"`
	// Min is the inclusive lower bound.
	Min float64 `mapstructure:"min"`
	// Max is the upper bound: inclusive for int, exclusive for float.
	Max float64 `mapstructure:"max"`
	// Type selects the output kind, "float" or "int".
	Type string `mapstructure:"type"`
}

// RandomInput is the per-item input of the random element. Every field
// overrides the element default for that one record.
type RandomInput struct {
	Seed *int64   `mapstructure:"seed"`
	Min  *float64 `mapstructure:"min"`
	Max  *float64 `mapstructure:"max"`
	Type *string  `mapstructure:"type"`
}

// Random emits one random value per input record.
type Random struct {
	element.Base
	cfg RandomConfig
	rng *rand.Rand
}

func NewRandom() *Random {
	return &Random{
		cfg: RandomConfig{Min: 0, Max: 1.0, Type: "float"},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Random) Config() any { return &e.cfg }

// Init reseeds once when a construction-time seed was given.
func (e *Random) Init() error {
	if e.cfg.Seed != nil {
		e.rng = rand.New(rand.NewSource(*e.cfg.Seed))
	}
	return nil
}

func (e *Random) Input() element.Shape {
	return element.NewShape(func() any { return &RandomInput{} })
}

func (e *Random) Process(_ context.Context, in stream.Iterator) stream.Iterator {
	return mapEach(in, func(_ context.Context, item any) (any, error) {
		req := perItem[RandomInput](item)
		e.Apply(req)

		// The defaults table echoes the configured seed back on every
		// record; only an actual per-item override reseeds mid-run.
		if req.Seed != nil && (e.cfg.Seed == nil || *req.Seed != *e.cfg.Seed) {
			e.rng = rand.New(rand.NewSource(*req.Seed))
		}
		min, max := e.cfg.Min, e.cfg.Max
		if req.Min != nil {
			min = *req.Min
		}
		if req.Max != nil {
			max = *req.Max
		}
		kind := e.cfg.Type
		if req.Type != nil {
			kind = *req.Type
		}

		if kind == "int" {
			lo, hi := int64(min), int64(max)
			if hi < lo {
				lo, hi = hi, lo
			}
			return lo + e.rng.Int63n(hi-lo+1), nil
		}
		return min + e.rng.Float64()*(max-min), nil
	})
}
