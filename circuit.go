package main

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	threeQubitRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex    = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*\w+\[(\d+)\];?$`)
	qregRegex       = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	cregRegex       = regexp.MustCompile(`creg\s+(\w+)\[(\d+)\]`)
)

// ErrUnsupportedGate is returned when a circuit or QASM source uses a gate
// outside the X/CX/CCX/measure set.
var ErrUnsupportedGate = errors.New("unsupported gate")

// ErrRegisterRange is returned when a gate or measurement addresses a bit
// outside its register, or a register exceeds MaxQubits.
var ErrRegisterRange = errors.New("register index out of range")

// MaxQubits caps register sizes; the state vector holds 2^n amplitudes.
const MaxQubits = 24

// Gate represents a quantum gate placed on the circuit.
type Gate struct {
	Type     string
	Target   int
	Control  int   // -1 if not a controlled gate
	Controls []int // Multiple control qubits (for CCX/Toffoli)
	Cbit     int   // classical bit written by a MEASURE, -1 otherwise
	Step     int   // position in circuit timeline
}

// Circuit holds the quantum circuit state.
type Circuit struct {
	NumQubits int
	NumCbits  int
	Gates     []Gate
	MaxSteps  int
}

// NewCircuit returns an empty circuit with the given register sizes.
func NewCircuit(numQubits, numCbits int) *Circuit {
	return &Circuit{NumQubits: numQubits, NumCbits: numCbits}
}

func (c *Circuit) place(g Gate) {
	c.Gates = append(c.Gates, g)
	if g.Step >= c.MaxSteps {
		c.MaxSteps = g.Step + 1
	}
	if g.Type != "BARRIER" {
		c.NumQubits = max(c.NumQubits, g.Target+1)
		for _, q := range g.qubits() {
			c.NumQubits = max(c.NumQubits, q+1)
		}
	}
	if g.Cbit >= c.NumCbits {
		c.NumCbits = g.Cbit + 1
	}
}

// AddGate appends a gate to the circuit.
func (c *Circuit) AddGate(gateType string, target, step int, control ...int) {
	ctrl := -1
	if len(control) > 0 {
		ctrl = control[0]
	}
	c.place(Gate{
		Type:    gateType,
		Target:  target,
		Control: ctrl,
		Cbit:    -1,
		Step:    step,
	})
}

// AddMultiControlGate appends a multi-controlled gate to the circuit.
func (c *Circuit) AddMultiControlGate(gateType string, target, step int, controls []int) {
	c.place(Gate{
		Type:     gateType,
		Target:   target,
		Control:  -1,
		Controls: controls,
		Cbit:     -1,
		Step:     step,
	})
}

// AddMeasure appends a measurement of qubit into classical bit cbit.
func (c *Circuit) AddMeasure(qubit, cbit, step int) {
	c.place(Gate{
		Type:    "MEASURE",
		Target:  qubit,
		Control: -1,
		Cbit:    cbit,
		Step:    step,
	})
}

// AddBarrier appends a barrier spanning all qubits at the given step.
func (c *Circuit) AddBarrier(step int) {
	// Remove any existing barrier at this step
	c.Gates = slices.DeleteFunc(c.Gates, func(g Gate) bool {
		return g.Step == step && g.Type == "BARRIER"
	})
	c.place(Gate{
		Type:    "BARRIER",
		Target:  -1, // spans all qubits
		Control: -1,
		Cbit:    -1,
		Step:    step,
	})
}

// qubits lists every qubit the gate touches, target last.
func (g Gate) qubits() []int {
	var qs []int
	if g.Control >= 0 {
		qs = append(qs, g.Control)
	}
	qs = append(qs, g.Controls...)
	if g.Target >= 0 {
		qs = append(qs, g.Target)
	}
	return qs
}

// gateReferences reports whether the gate references the given qubit.
func (g Gate) gateReferences(qubit int) bool {
	return slices.Contains(g.qubits(), qubit)
}

// span returns the wires a gate covers when drawn. Multi-qubit gates cover
// every wire between their outermost qubits; a measurement's connector runs
// from its qubit down to the classical wire.
func (g Gate) span() (lo, hi int) {
	qs := g.qubits()
	lo, hi = slices.Min(qs), slices.Max(qs)
	if g.Type == "MEASURE" {
		hi = math.MaxInt
	}
	return lo, hi
}

// nextStep returns the earliest step at which a gate on the given qubits can
// be placed: after every gate whose drawn span overlaps its own, after any
// barrier, and for measurements after the previous measurement so the
// classical wire keeps one landing point per column.
func (c *Circuit) nextStep(measure bool, qubits ...int) int {
	lo, hi := slices.Min(qubits), slices.Max(qubits)
	if measure {
		hi = math.MaxInt
	}
	step := 0
	for _, g := range c.Gates {
		blocks := g.Type == "BARRIER" || (measure && g.Type == "MEASURE")
		if !blocks {
			glo, ghi := g.span()
			blocks = lo <= ghi && glo <= hi
		}
		if blocks {
			step = max(step, g.Step+1)
		}
	}
	return step
}

// Append places a gate at the earliest free step for its qubits and returns
// that step. controls holds zero, one or two control qubits.
func (c *Circuit) Append(gateType string, target int, controls ...int) int {
	step := c.nextStep(false, append(slices.Clone(controls), target)...)
	switch len(controls) {
	case 0:
		c.AddGate(gateType, target, step)
	case 1:
		c.AddGate(gateType, target, step, controls[0])
	default:
		c.AddMultiControlGate(gateType, target, step, slices.Clone(controls))
	}
	return step
}

// AppendMeasure places a measurement at the earliest free step.
func (c *Circuit) AppendMeasure(qubit, cbit int) int {
	step := c.nextStep(true, qubit)
	c.AddMeasure(qubit, cbit, step)
	return step
}

// GetGateAt returns the gate at the given step and qubit, or nil.
func (c *Circuit) GetGateAt(step, qubit int) *Gate {
	for i := range c.Gates {
		g := &c.Gates[i]
		if g.Step == step && g.Type != "BARRIER" && g.gateReferences(qubit) {
			return g
		}
	}
	return nil
}

// GetMeasureAtStep returns the gate measuring at the given step, or nil.
// This is used to determine which classical bit wire receives a value at each step.
func (c *Circuit) GetMeasureAtStep(step int) *Gate {
	for i := range c.Gates {
		if c.Gates[i].Step == step && c.Gates[i].Type == "MEASURE" {
			return &c.Gates[i]
		}
	}
	return nil
}

// Ordered returns the gates sorted by step, keeping insertion order inside a step.
func (c *Circuit) Ordered() []Gate {
	gates := slices.Clone(c.Gates)
	slices.SortStableFunc(gates, func(a, b Gate) int {
		return a.Step - b.Step
	})
	return gates
}

// Measurements returns the qubit measured into each classical bit, -1 where
// a classical bit is never written.
func (c *Circuit) Measurements() []int {
	m := make([]int, c.NumCbits)
	for i := range m {
		m[i] = -1
	}
	for _, g := range c.Ordered() {
		if g.Type == "MEASURE" {
			m[g.Cbit] = g.Target
		}
	}
	return m
}

// Validate checks that every gate addresses qubits and classical bits inside
// the circuit's registers.
func (c *Circuit) Validate() error {
	if c.NumQubits > MaxQubits || c.NumCbits > MaxQubits {
		return fmt.Errorf("%w: q[%d] c[%d] exceeds %d bits", ErrRegisterRange, c.NumQubits, c.NumCbits, MaxQubits)
	}
	for _, g := range c.Gates {
		if g.Type == "BARRIER" {
			continue
		}
		for _, q := range g.qubits() {
			if q < 0 || q >= c.NumQubits {
				return fmt.Errorf("step %d: %w: %s on q[%d] of q[%d]", g.Step, ErrRegisterRange, g.Type, q, c.NumQubits)
			}
		}
		if g.Type == "MEASURE" && (g.Cbit < 0 || g.Cbit >= c.NumCbits) {
			return fmt.Errorf("step %d: %w: measure into c[%d] of c[%d]", g.Step, ErrRegisterRange, g.Cbit, c.NumCbits)
		}
	}
	return nil
}

// ToQASM generates QASM 2.0 output from the circuit.
func (c *Circuit) ToQASM() string {
	numQubits := max(c.NumQubits, 1)

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", numQubits)
	if c.NumCbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumCbits)
	}
	sb.WriteString("\n")

	for _, gate := range c.Ordered() {
		switch {
		case gate.Type == "BARRIER":
			qubits := make([]string, numQubits)
			for q := range numQubits {
				qubits[q] = fmt.Sprintf("q[%d]", q)
			}
			fmt.Fprintf(&sb, "barrier %s;\n", strings.Join(qubits, ", "))
		case gate.Type == "MEASURE":
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Cbit)
		case len(gate.Controls) > 0:
			fmt.Fprintf(&sb, "%s ", strings.ToLower(gate.Type))
			for _, ctrl := range gate.Controls {
				fmt.Fprintf(&sb, "q[%d], ", ctrl)
			}
			fmt.Fprintf(&sb, "q[%d];\n", gate.Target)
		case gate.Control >= 0:
			fmt.Fprintf(&sb, "%s q[%d], q[%d];\n", strings.ToLower(gate.Type), gate.Control, gate.Target)
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", strings.ToLower(gate.Type), gate.Target)
		}
	}

	return sb.String()
}

// ParseQASM parses QASM text and rebuilds the circuit from it. Gates are
// packed into the earliest step their qubits allow. Each register may be
// declared once, and once declared every index must fall inside it.
func (c *Circuit) ParseQASM(qasm string) error {
	c.Gates = nil
	c.MaxSteps = 0
	c.NumQubits = 0
	c.NumCbits = 0
	var qDeclared, cDeclared bool

	qubit := func(line int, s string) (int, error) {
		q, _ := strconv.Atoi(s)
		if q >= MaxQubits || (qDeclared && q >= c.NumQubits) {
			return 0, fmt.Errorf("line %d: %w: q[%d]", line, ErrRegisterRange, q)
		}
		return q, nil
	}
	cbit := func(line int, s string) (int, error) {
		b, _ := strconv.Atoi(s)
		if b >= MaxQubits || (cDeclared && b >= c.NumCbits) {
			return 0, fmt.Errorf("line %d: %w: c[%d]", line, ErrRegisterRange, b)
		}
		return b, nil
	}
	declare := func(line int, name string, declared *bool, size, used int) error {
		switch {
		case *declared:
			return fmt.Errorf("line %d: register %s declared twice", line, name)
		case size > MaxQubits:
			return fmt.Errorf("line %d: %w: %s[%d] exceeds %d", line, ErrRegisterRange, name, size, MaxQubits)
		case size < used:
			return fmt.Errorf("line %d: %w: %s[%d] is smaller than index %d already used", line, ErrRegisterRange, name, size, used-1)
		}
		*declared = true
		return nil
	}

	for n, line := range strings.Split(qasm, "\n") {
		lineNo := n + 1
		line = strings.TrimSpace(line)
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") {
			continue
		}
		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			size, _ := strconv.Atoi(matches[2])
			if err := declare(lineNo, "qreg", &qDeclared, size, c.NumQubits); err != nil {
				return err
			}
			c.NumQubits = size
			continue
		}
		if matches := cregRegex.FindStringSubmatch(line); matches != nil {
			size, _ := strconv.Atoi(matches[2])
			if err := declare(lineNo, "creg", &cDeclared, size, c.NumCbits); err != nil {
				return err
			}
			c.NumCbits = size
			continue
		}
		if strings.HasPrefix(line, "barrier") {
			c.AddBarrier(c.MaxSteps)
			continue
		}

		// Measurement: "measure q[1] -> c[0];"
		if matches := measureRegex.FindStringSubmatch(line); matches != nil {
			q, err := qubit(lineNo, matches[1])
			if err != nil {
				return err
			}
			b, err := cbit(lineNo, matches[2])
			if err != nil {
				return err
			}
			c.AppendMeasure(q, b)
			continue
		}

		// Three-qubit gates (Toffoli/CCX)
		if matches := threeQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			if gateType != "CCX" && gateType != "TOFFOLI" {
				return fmt.Errorf("line %d: %w: %s", lineNo, ErrUnsupportedGate, matches[1])
			}
			qs, err := gateOperands(lineNo, qubit, matches[2:5]...)
			if err != nil {
				return err
			}
			c.Append("CCX", qs[2], qs[0], qs[1])
			continue
		}

		// Two-qubit gates
		if matches := twoQubitRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			if gateType != "CX" && gateType != "CNOT" {
				return fmt.Errorf("line %d: %w: %s", lineNo, ErrUnsupportedGate, matches[1])
			}
			qs, err := gateOperands(lineNo, qubit, matches[2:4]...)
			if err != nil {
				return err
			}
			c.Append("CX", qs[1], qs[0])
			continue
		}

		// Single-qubit gate
		if matches := singleGateRegex.FindStringSubmatch(line); matches != nil {
			gateType := strings.ToUpper(matches[1])
			if gateType != "X" {
				return fmt.Errorf("line %d: %w: %s", lineNo, ErrUnsupportedGate, matches[1])
			}
			target, err := qubit(lineNo, matches[2])
			if err != nil {
				return err
			}
			c.Append(gateType, target)
			continue
		}

		return fmt.Errorf("line %d: cannot parse %q", lineNo, line)
	}

	return nil
}

// gateOperands resolves every operand of a multi-qubit gate, rejecting repeats.
func gateOperands(line int, resolve func(int, string) (int, error), operands ...string) ([]int, error) {
	qs := make([]int, 0, len(operands))
	for _, s := range operands {
		q, err := resolve(line, s)
		if err != nil {
			return nil, err
		}
		if slices.Contains(qs, q) {
			return nil, fmt.Errorf("line %d: q[%d] used twice in one gate", line, q)
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate         *Gate
	isControl    bool
	isTarget     bool
	vertAbove    bool
	vertBelow    bool
	passThrough  bool
	measureBelow bool
	isBarrier    bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func (c *Circuit) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo

	gate := c.GetGateAt(step, qubit)
	if gate != nil {
		info.gate = gate
		info.isControl = gate.Control == qubit || slices.Contains(gate.Controls, qubit)
		info.isTarget = gate.Target == qubit && (gate.Control >= 0 || len(gate.Controls) > 0)
	}

	// Check for barrier at this step
	for i := range c.Gates {
		if c.Gates[i].Step == step && c.Gates[i].Type == "BARRIER" {
			info.isBarrier = true
			if info.gate == nil {
				info.gate = &c.Gates[i]
			}
			break
		}
	}

	// Vertical connections for controlled gates
	for _, g := range c.Gates {
		if g.Step != step || g.Type == "BARRIER" || g.Type == "MEASURE" {
			continue
		}
		qs := g.qubits()
		if len(qs) < 2 {
			continue
		}
		minQ, maxQ := slices.Min(qs), slices.Max(qs)

		if qubit >= minQ && qubit <= maxQ {
			if qubit > minQ {
				info.vertAbove = true
			}
			if qubit < maxQ {
				info.vertBelow = true
			}
			if qubit > minQ && qubit < maxQ && info.gate == nil {
				info.passThrough = true
			}
		}
	}

	// Vertical connections for measurement gates going down to classical wires
	if m := c.GetMeasureAtStep(step); m != nil && qubit > m.Target {
		info.measureBelow = true
	}

	return info
}
