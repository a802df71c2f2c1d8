package voyagraph

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyagraph/voyagraph/internal/distance"
	"github.com/voyagraph/voyagraph/internal/storage"
)

// Option configures an Index at construction time.
type Option func(*config) error

type config struct {
	dim            int
	space          distance.Space
	storage        storage.Kind
	m              int
	efConstruction int
	efDefault      int
	rngSeed        int64
	maxElements    int
	metrics        bool
	registerer     prometheus.Registerer
}

func defaultConfig(dim int) config {
	return config{
		dim:            dim,
		space:          distance.Euclidean,
		storage:        storage.F32,
		m:              16,
		efConstruction: 200,
		rngSeed:        1,
		maxElements:    1,
		metrics:        true,
	}
}

// WithSpace sets the distance metric. Default: Euclidean.
func WithSpace(space distance.Space) Option {
	return func(c *config) error {
		c.space = space
		return nil
	}
}

// WithStorage sets the vector storage precision. Default: F32.
func WithStorage(kind storage.Kind) Option {
	return func(c *config) error {
		c.storage = kind
		return nil
	}
}

// WithM sets the graph degree parameter M. Default: 16.
func WithM(m int) Option {
	return func(c *config) error {
		if m <= 0 {
			return fmt.Errorf("%w: M must be positive", ErrInvalidArgument)
		}
		c.m = m
		return nil
	}
}

// WithEfConstruction sets the beam width used while building the graph.
// Default: 200.
func WithEfConstruction(ef int) Option {
	return func(c *config) error {
		if ef <= 0 {
			return fmt.Errorf("%w: ef_construction must be positive", ErrInvalidArgument)
		}
		c.efConstruction = ef
		return nil
	}
}

// WithEfDefault sets the fallback beam width used by queries that omit
// an explicit ef. Default: equal to ef_construction.
func WithEfDefault(ef int) Option {
	return func(c *config) error {
		if ef <= 0 {
			return fmt.Errorf("%w: ef_default must be positive", ErrInvalidArgument)
		}
		c.efDefault = ef
		return nil
	}
}

// WithRNGSeed sets the seed for the shared level-draw generator.
// Default: 1.
func WithRNGSeed(seed int64) Option {
	return func(c *config) error {
		c.rngSeed = seed
		return nil
	}
}

// WithMaxElements sets the initial node capacity. The graph grows
// automatically on overflow; this only avoids early reallocation.
// Default: 1.
func WithMaxElements(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: max_elements must be positive", ErrInvalidArgument)
		}
		c.maxElements = n
		return nil
	}
}

// WithMetrics enables or disables Prometheus instrumentation. Default:
// enabled, registered against a private registry created for this
// Index (see WithMetricsRegisterer to share one instead).
func WithMetrics(enabled bool) Option {
	return func(c *config) error {
		c.metrics = enabled
		return nil
	}
}

// WithMetricsRegisterer registers this Index's metrics against reg
// instead of a private, per-Index registry. Useful for exposing
// several indexes' metrics through one process-wide /metrics endpoint.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) error {
		c.registerer = reg
		return nil
	}
}
