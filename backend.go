package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
)

// Backend names accepted by NewBackend.
const (
	BackendStateVector = "statevector"
	BackendClassical   = "classical"
)

// ErrUnknownBackend is returned by NewBackend for an unrecognized name.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend executes a measured circuit and reports how often each classical
// register outcome was observed. Implementations must be safe for concurrent use.
type Backend interface {
	Name() string
	Run(ctx context.Context, c *Circuit, shots int) (Counts, error)
}

// NewBackend returns the backend registered under name. seed only affects
// the state-vector sampler; 0 seeds from the runtime source.
func NewBackend(name string, seed uint64) (Backend, error) {
	switch name {
	case "", BackendStateVector:
		return &StateVectorBackend{Seed: seed}, nil
	case BackendClassical:
		return ClassicalBackend{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// StateVectorBackend samples shots from a full state-vector simulation.
type StateVectorBackend struct {
	Seed uint64
}

func (b *StateVectorBackend) Name() string { return BackendStateVector }

func (b *StateVectorBackend) Run(ctx context.Context, c *Circuit, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	seed := b.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return SampleCircuit(ctx, c, shots, rng)
}

// ClassicalBackend evaluates the circuit as a reversible boolean network.
// Every gate it accepts maps basis states to basis states, so all shots land
// on a single outcome.
type ClassicalBackend struct{}

func (ClassicalBackend) Name() string { return BackendClassical }

func (ClassicalBackend) Run(ctx context.Context, c *Circuit, shots int) (Counts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bits := make([]int, max(c.NumQubits, 1))
	cbits := make([]int, c.NumCbits)
	for _, g := range c.Ordered() {
		switch g.Type {
		case "X":
			bits[g.Target] ^= 1
		case "CX":
			if g.Control < 0 {
				return nil, fmt.Errorf("step %d: %w: CX without control", g.Step, ErrUnsupportedGate)
			}
			bits[g.Target] ^= bits[g.Control]
		case "CCX":
			if len(g.Controls) != 2 {
				return nil, fmt.Errorf("step %d: %w: CCX needs two controls", g.Step, ErrUnsupportedGate)
			}
			bits[g.Target] ^= bits[g.Controls[0]] & bits[g.Controls[1]]
		case "MEASURE":
			cbits[g.Cbit] = bits[g.Target]
		case "BARRIER":
		default:
			return nil, fmt.Errorf("step %d: %w: %s", g.Step, ErrUnsupportedGate, g.Type)
		}
	}

	return Counts{FormatOutcome(cbits): shots}, nil
}
