package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestQASMCommand(t *testing.T) {
	out, err := execute(t, "qasm", "--a", "1", "--b", "0", "--stage", "sum")
	require.NoError(t, err)
	assert.Contains(t, out, "x q[0];\ncx q[0], q[1];\n")
	assert.NotContains(t, out, "ccx")

	_, err = execute(t, "qasm", "--a", "3", "--b", "0", "--stage", "sum")
	assert.ErrorIs(t, err, ErrInvalidPair)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--output", dir, "--backend", BackendClassical, "--shots", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "A=1 B=1 -> Suma=0 Acarreo=1")

	for _, p := range Combinations {
		files, err := os.ReadDir(filepath.Join(dir, ReportDir(p)))
		require.NoError(t, err)
		assert.Len(t, files, 8)
	}
}

func TestSimulateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "and.qasm")
	src := "qreg q[3];\ncreg c[1];\nx q[0];\nx q[1];\nccx q[0], q[1], q[2];\nmeasure q[2] -> c[0];\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	out, err := execute(t, "simulate", path, "--backend", BackendClassical, "--shots", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Measured: c0<-q2")
	assert.Contains(t, out, "Most probable: 1")
	assert.Contains(t, out, "{'1': 8}")

	bad := filepath.Join(t.TempDir(), "h.qasm")
	require.NoError(t, os.WriteFile(bad, []byte("qreg q[1];\nh q[0];\n"), 0o644))
	_, err = execute(t, "simulate", bad)
	assert.ErrorIs(t, err, ErrUnsupportedGate)

	shrunk := filepath.Join(t.TempDir(), "shrunk.qasm")
	require.NoError(t, os.WriteFile(shrunk, []byte("x q[5];\nqreg q[3];\ncreg c[1];\nmeasure q[0] -> c[0];\n"), 0o644))
	_, err = execute(t, "simulate", shrunk)
	assert.ErrorIs(t, err, ErrRegisterRange)
}
