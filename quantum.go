package main

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
)

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// ApplyGate applies a unitary gate. MEASURE and BARRIER are no-ops here;
// measurement is handled by the sampler.
func (s *StateVector) ApplyGate(g Gate) error {
	switch g.Type {
	case "X":
		s.applyX(g.Target)
	case "CX":
		if g.Control < 0 {
			return fmt.Errorf("%w: CX without control", ErrUnsupportedGate)
		}
		s.applyCX(g.Control, g.Target)
	case "CCX":
		if len(g.Controls) != 2 {
			return fmt.Errorf("%w: CCX needs two controls, got %d", ErrUnsupportedGate, len(g.Controls))
		}
		s.applyCCX(g.Controls[0], g.Controls[1], g.Target)
	case "MEASURE", "BARRIER":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGate, g.Type)
	}
	return nil
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCCX(c1, c2, target int) {
	n := len(s.Amplitudes)
	cBits := 1<<c1 | 1<<c2
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBits == cBits && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// prob1 returns the probability of measuring qubit q as 1.
func (s *StateVector) prob1(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, amp := range s.Amplitudes {
		if i&bit != 0 {
			p += real(amp * cmplx.Conj(amp))
		}
	}
	return p
}

// collapse projects qubit q onto |value⟩ and renormalizes.
func (s *StateVector) collapse(q, value int) {
	bit := 1 << q
	keep := 0
	if value == 1 {
		keep = bit
	}

	prob := 0.0
	for i, amp := range s.Amplitudes {
		if i&bit == keep {
			prob += real(amp * cmplx.Conj(amp))
		}
	}

	norm := 1.0
	if prob > 0 {
		norm = math.Sqrt(prob)
	}

	for i := range s.Amplitudes {
		if i&bit == keep {
			s.Amplitudes[i] = s.Amplitudes[i] / complex(norm, 0)
		} else {
			s.Amplitudes[i] = 0
		}
	}
}

// measure samples qubit q, collapses the state and returns the observed bit.
func (s *StateVector) measure(q int, rng *rand.Rand) int {
	v := 0
	if rng.Float64() < s.prob1(q) {
		v = 1
	}
	s.collapse(q, v)
	return v
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

func (s *StateVector) GetQubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)
	n := len(s.Amplitudes)

	for i := 0; i < n; i++ {
		prob := real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

// SimulateCircuit evolves |0…0⟩ through the unitary gates up to and including
// upToStep (all gates when upToStep < 0). Measurements are not applied.
func SimulateCircuit(circuit *Circuit, upToStep int) (*StateVector, error) {
	if err := circuit.Validate(); err != nil {
		return nil, err
	}
	if circuit.NumQubits == 0 {
		return NewStateVector(1), nil
	}
	state := NewStateVector(circuit.NumQubits)

	for _, gate := range circuit.Ordered() {
		if upToStep >= 0 && gate.Step > upToStep {
			continue
		}
		if err := state.ApplyGate(gate); err != nil {
			return nil, fmt.Errorf("step %d: %w", gate.Step, err)
		}
	}

	return state, nil
}

// runShot executes the circuit once, sampling every measurement as it is
// reached, and returns the classical register.
func runShot(gates []Gate, numQubits, numCbits int, rng *rand.Rand) ([]int, error) {
	state := NewStateVector(numQubits)
	cbits := make([]int, numCbits)
	for _, g := range gates {
		if g.Type == "MEASURE" {
			cbits[g.Cbit] = state.measure(g.Target, rng)
			continue
		}
		if err := state.ApplyGate(g); err != nil {
			return nil, fmt.Errorf("step %d: %w", g.Step, err)
		}
	}
	return cbits, nil
}

// SampleCircuit runs the circuit shots times and tallies the classical
// register outcomes.
func SampleCircuit(ctx context.Context, circuit *Circuit, shots int, rng *rand.Rand) (Counts, error) {
	if err := circuit.Validate(); err != nil {
		return nil, err
	}
	gates := circuit.Ordered()
	numQubits := max(circuit.NumQubits, 1)
	counts := make(Counts)
	for range shots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cbits, err := runShot(gates, numQubits, circuit.NumCbits, rng)
		if err != nil {
			return nil, err
		}
		counts[FormatOutcome(cbits)]++
	}
	return counts, nil
}
