package main

import (
	"errors"
	"fmt"
)

// Qubit and classical bit layout of the half adder.
const (
	qubitA     = 0
	qubitB     = 1 // holds A xor B after the CX
	qubitCarry = 2
	cbitSum    = 0
	cbitCarry  = 1

	halfAdderQubits = 3
	halfAdderCbits  = 2
)

// ErrInvalidPair is returned for input bits outside {0,1}.
var ErrInvalidPair = errors.New("input bits must be 0 or 1")

// InputPair is one (A, B) input combination.
type InputPair struct {
	A int
	B int
}

// Combinations lists every input pair in the order reports are produced.
var Combinations = []InputPair{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

// Validate reports whether both bits are 0 or 1.
func (p InputPair) Validate() error {
	if (p.A != 0 && p.A != 1) || (p.B != 0 && p.B != 1) {
		return fmt.Errorf("%w: A=%d, B=%d", ErrInvalidPair, p.A, p.B)
	}
	return nil
}

func (p InputPair) String() string {
	return fmt.Sprintf("A=%d, B=%d", p.A, p.B)
}

// Stage names a prefix of the half-adder circuit.
type Stage int

const (
	StageInitial Stage = iota // inputs prepared
	StageSum                  // after the CX
	StageCarry                // after the Toffoli and its carry correction
	StageFinal                // with measurements
)

// Stages lists every stage in circuit order.
var Stages = []Stage{StageInitial, StageSum, StageCarry, StageFinal}

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial"
	case StageSum:
		return "sum"
	case StageCarry:
		return "carry"
	case StageFinal:
		return "final"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ParseStage maps a stage name back to its Stage.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q (want initial, sum, carry or final)", name)
}

// BuildStage builds the half-adder circuit for the pair up to and including stage.
func BuildStage(p InputPair, stage Stage) *Circuit {
	c := NewCircuit(halfAdderQubits, halfAdderCbits)

	if p.A == 1 {
		c.Append("X", qubitA)
	}
	if p.B == 1 {
		c.Append("X", qubitB)
	}
	if stage < StageSum {
		return c
	}

	c.Append("CX", qubitB, qubitA)
	if stage < StageCarry {
		return c
	}

	// The Toffoli sees B already replaced by A xor B and leaves A and not B
	// on the carry qubit; a CX from A turns that into A and B.
	c.Append("CCX", qubitCarry, qubitA, qubitB)
	c.Append("CX", qubitCarry, qubitA)
	if stage < StageFinal {
		return c
	}

	c.AppendMeasure(qubitB, cbitSum)
	c.AppendMeasure(qubitCarry, cbitCarry)
	return c
}

// BuildHalfAdder builds the complete, measured half-adder circuit.
func BuildHalfAdder(p InputPair) *Circuit {
	return BuildStage(p, StageFinal)
}
