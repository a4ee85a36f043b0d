package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHalfAdderQASM(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[2];

x q[0];
x q[1];
cx q[0], q[1];
ccx q[0], q[1], q[2];
measure q[1] -> c[0];
measure q[2] -> c[1];`

	var c Circuit
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	fmt.Printf("Parsed %d gates:\n", len(c.Gates))
	for _, g := range c.Gates {
		fmt.Printf("  Step %d: Type=%s Target=%d Control=%d Controls=%v Cbit=%d\n",
			g.Step, g.Type, g.Target, g.Control, g.Controls, g.Cbit)
	}

	if c.NumQubits != 3 || c.NumCbits != 2 {
		t.Fatalf("registers: got q[%d] c[%d], want q[3] c[2]", c.NumQubits, c.NumCbits)
	}
	if len(c.Gates) != 6 {
		t.Fatalf("expected 6 gates, got %d", len(c.Gates))
	}

	// Both input flips share the first column.
	if c.Gates[0].Step != 0 || c.Gates[1].Step != 0 {
		t.Errorf("X gates at steps %d and %d, want both at 0", c.Gates[0].Step, c.Gates[1].Step)
	}

	ccx := c.Gates[3]
	if ccx.Type != "CCX" || ccx.Target != 2 || len(ccx.Controls) != 2 {
		t.Errorf("gate 3: expected CCX q[0],q[1] -> q[2], got Type=%s Target=%d Controls=%v",
			ccx.Type, ccx.Target, ccx.Controls)
	}

	sum, carry := c.Gates[4], c.Gates[5]
	if sum.Type != "MEASURE" || sum.Target != 1 || sum.Cbit != 0 {
		t.Errorf("gate 4: expected measure q[1] -> c[0], got %+v", sum)
	}
	if carry.Type != "MEASURE" || carry.Target != 2 || carry.Cbit != 1 {
		t.Errorf("gate 5: expected measure q[2] -> c[1], got %+v", carry)
	}
	if carry.Step <= sum.Step {
		t.Errorf("measurements share step %d; each needs its own column", sum.Step)
	}
}

func TestRoundTripQASM(t *testing.T) {
	for _, p := range Combinations {
		for _, s := range Stages {
			t.Run(fmt.Sprintf("%d%d_%s", p.A, p.B, s), func(t *testing.T) {
				c := BuildStage(p, s)
				qasm := c.ToQASM()

				var c2 Circuit
				if err := c2.ParseQASM(qasm); err != nil {
					t.Fatalf("ParseQASM error: %v\n%s", err, qasm)
				}
				if diff := cmp.Diff(c.Ordered(), c2.Ordered()); diff != "" {
					t.Errorf("round-trip mismatch (-want +got):\n%s\nQASM:\n%s", diff, qasm)
				}
				if c2.MaxSteps != c.MaxSteps {
					t.Errorf("MaxSteps: got %d, want %d", c2.MaxSteps, c.MaxSteps)
				}
				if c2.NumQubits != c.NumQubits || c2.NumCbits != c.NumCbits {
					t.Errorf("registers: got q[%d] c[%d], want q[%d] c[%d]",
						c2.NumQubits, c2.NumCbits, c.NumQubits, c.NumCbits)
				}
			})
		}
	}
}

func TestToQASMFinalCircuit(t *testing.T) {
	got := BuildHalfAdder(InputPair{A: 1, B: 0}).ToQASM()
	want := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[2];

x q[0];
cx q[0], q[1];
ccx q[0], q[1], q[2];
cx q[0], q[2];
measure q[1] -> c[0];
measure q[2] -> c[1];
`
	if got != want {
		t.Errorf("ToQASM mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseRejectsOtherGates(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"hadamard", "h q[0];"},
		{"cz", "cz q[0], q[1];"},
		{"cswap", "cswap q[0], q[1], q[2];"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Circuit
			err := c.ParseQASM("qreg q[3];\n" + tt.line)
			if !errors.Is(err, ErrUnsupportedGate) {
				t.Errorf("ParseQASM(%q): got %v, want ErrUnsupportedGate", tt.line, err)
			}
			if err != nil && !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error should name the line, got %v", err)
			}
		})
	}

	var c Circuit
	if err := c.ParseQASM("rx(pi/2) q[0];"); err == nil {
		t.Error("expected an error for a parameterized gate")
	}
}

func TestQASMWithoutClassicalRegister(t *testing.T) {
	var c Circuit
	if err := c.ParseQASM("qreg q[2];\nx q[0];\ncx q[0], q[1];"); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	qasm := c.ToQASM()
	if strings.Contains(qasm, "creg") {
		t.Errorf("no classical bits, yet QASM declares a creg:\n%s", qasm)
	}

	var c2 Circuit
	if err := c2.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if c2.NumQubits != 2 || c2.NumCbits != 0 {
		t.Errorf("registers: got q[%d] c[%d], want q[2] c[0]", c2.NumQubits, c2.NumCbits)
	}
}

func TestParseRegisterBounds(t *testing.T) {
	tests := []struct {
		name string
		qasm string
		want error // nil means any error
	}{
		{"qreg shrinks below used qubit", "x q[5];\nqreg q[3];\ncreg c[1];\nmeasure q[0] -> c[0];", ErrRegisterRange},
		{"creg shrinks below used cbit", "qreg q[2];\nmeasure q[0] -> c[3];\ncreg c[1];", ErrRegisterRange},
		{"qubit past declared qreg", "qreg q[1];\nx q[70];", ErrRegisterRange},
		{"qubit past cap without qreg", "x q[70];", ErrRegisterRange},
		{"control past declared qreg", "qreg q[2];\ncx q[0], q[2];", ErrRegisterRange},
		{"toffoli past declared qreg", "qreg q[3];\nccx q[0], q[1], q[3];", ErrRegisterRange},
		{"cbit past declared creg", "qreg q[1];\ncreg c[1];\nmeasure q[0] -> c[1];", ErrRegisterRange},
		{"oversized qreg", "qreg q[64];", ErrRegisterRange},
		{"qreg declared twice", "qreg q[3];\nqreg q[3];", nil},
		{"creg declared twice", "creg c[1];\ncreg c[2];", nil},
		{"repeated operand", "qreg q[2];\ncx q[1], q[1];", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Circuit
			err := c.ParseQASM(tt.qasm)
			if err == nil {
				t.Fatalf("ParseQASM(%q): expected an error", tt.qasm)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("ParseQASM(%q): got %v, want %v", tt.qasm, err, tt.want)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error should name the line, got %v", err)
			}
		})
	}
}

func TestCircuitValidate(t *testing.T) {
	if err := BuildHalfAdder(InputPair{A: 1, B: 1}).Validate(); err != nil {
		t.Fatalf("half adder should validate: %v", err)
	}

	tests := []struct {
		name string
		c    *Circuit
	}{
		{"target outside qreg", &Circuit{NumQubits: 1, Gates: []Gate{{Type: "X", Target: 3, Control: -1, Cbit: -1}}}},
		{"control outside qreg", &Circuit{NumQubits: 2, Gates: []Gate{{Type: "CX", Target: 0, Control: 5, Cbit: -1}}}},
		{"cbit outside creg", &Circuit{NumQubits: 1, NumCbits: 1, Gates: []Gate{{Type: "MEASURE", Target: 0, Control: -1, Cbit: 2}}}},
		{"too many qubits", &Circuit{NumQubits: MaxQubits + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Validate(); !errors.Is(err, ErrRegisterRange) {
				t.Errorf("Validate: got %v, want ErrRegisterRange", err)
			}
		})
	}
}

func TestParseParallelGates(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c[1];

x q[0];
x q[1]; // prepare B
cx q[0], q[1];
x q[2];
`

	var c Circuit
	if err := c.ParseQASM(qasm); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	steps := map[string]int{}
	for _, g := range c.Gates {
		steps[fmt.Sprintf("%s%d", g.Type, g.Target)] = g.Step
	}

	if steps["X0"] != steps["X1"] {
		t.Errorf("X q[0] at step %d, X q[1] at step %d - expected same step for parallel gates", steps["X0"], steps["X1"])
	}
	if steps["CX1"] <= steps["X0"] {
		t.Errorf("CX should be after X gates, got CX at step %d, X at step %d", steps["CX1"], steps["X0"])
	}
	if steps["X2"] != 0 {
		t.Errorf("X q[2] touches a free wire, expected step 0, got %d", steps["X2"])
	}
}

func TestBarrierSeparatesSteps(t *testing.T) {
	var c Circuit
	if err := c.ParseQASM("qreg q[2];\nx q[0];\nbarrier q[0], q[1];\nx q[1];"); err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	ordered := c.Ordered()
	if len(ordered) != 3 || ordered[1].Type != "BARRIER" {
		t.Fatalf("expected X, BARRIER, X; got %+v", ordered)
	}
	if ordered[2].Step <= ordered[1].Step {
		t.Errorf("gate after barrier at step %d, barrier at %d", ordered[2].Step, ordered[1].Step)
	}
	if !strings.Contains(c.ToQASM(), "barrier q[0], q[1];") {
		t.Errorf("barrier missing from QASM:\n%s", c.ToQASM())
	}
}

func TestCellInfo(t *testing.T) {
	c := BuildHalfAdder(InputPair{A: 1, B: 1})
	ccxStep := -1
	for _, g := range c.Gates {
		if g.Type == "CCX" {
			ccxStep = g.Step
		}
	}

	top := c.getCellInfo(ccxStep, 0)
	if !top.isControl || top.vertAbove || !top.vertBelow {
		t.Errorf("q[0] at CCX: got %+v, want control with a line below only", top)
	}
	bottom := c.getCellInfo(ccxStep, 2)
	if !bottom.isTarget || !bottom.vertAbove || bottom.vertBelow {
		t.Errorf("q[2] at CCX: got %+v, want target with a line above only", bottom)
	}

	// The carry correction spans q[0]..q[2] and crosses q[1].
	if info := c.getCellInfo(ccxStep+1, 1); !info.passThrough {
		t.Errorf("q[1] under the carry correction: got %+v, want a pass-through", info)
	}
	if c.GetMeasureAtStep(ccxStep+1) != nil {
		t.Errorf("measurement shares a column with the carry correction")
	}

	m := c.GetMeasureAtStep(c.MaxSteps - 2)
	if m == nil || m.Cbit != 0 {
		t.Fatalf("expected the sum measurement at step %d, got %+v", c.MaxSteps-2, m)
	}
	if info := c.getCellInfo(m.Step, 2); !info.measureBelow {
		t.Errorf("q[2] below the sum measurement should carry the classical connector")
	}
}

func TestMeasurements(t *testing.T) {
	got := BuildHalfAdder(InputPair{}).Measurements()
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("Measurements (-want +got):\n%s", diff)
	}
}
