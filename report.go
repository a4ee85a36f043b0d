package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Result is the outcome of one input pair.
type Result struct {
	Pair    InputPair
	Counts  Counts
	Mode    string
	Sum     int
	Carry   int
	Shots   int
	Backend string
	Dir     string
}

// ReportDir returns the directory name holding a pair's artifacts.
func ReportDir(p InputPair) string {
	return fmt.Sprintf("Reporte_A_%d_B_%d", p.A, p.B)
}

func artifactName(prefix string, p InputPair, index int, ext string) string {
	return fmt.Sprintf("%s_A_%d_B_%d(%d).%s", prefix, p.A, p.B, index, ext)
}

// DiagramName returns the file name of a stage's circuit diagram.
func DiagramName(p InputPair, s Stage) string {
	prefix := map[Stage]string{
		StageInitial: "Circuito_inicial",
		StageSum:     "Circuito_suma",
		StageCarry:   "Circuito_acarreo",
		StageFinal:   "Circuito_final",
	}[s]
	return artifactName(prefix, p, int(s)+1, "png")
}

func HistogramName(p InputPair) string  { return artifactName("Histograma", p, 5, "png") }
func ResultsName(p InputPair) string    { return artifactName("Resultados", p, 6, "txt") }
func InputStateName(p InputPair) string { return artifactName("Estado_Qubits", p, 7, "png") }
func SummaryName(p InputPair) string    { return artifactName("Resumen", p, 8, "txt") }

// ArtifactNames lists the eight files of a pair's report bundle in index order.
func ArtifactNames(p InputPair) []string {
	names := make([]string, 0, 8)
	for _, s := range Stages {
		names = append(names, DiagramName(p, s))
	}
	return append(names, HistogramName(p), ResultsName(p), InputStateName(p), SummaryName(p))
}

// stageTitle is the heading drawn above a stage's diagram.
func stageTitle(p InputPair, s Stage, suffix string) string {
	var what string
	switch s {
	case StageInitial:
		what = "Circuito cuantico inicial"
	case StageSum:
		what = "Circuito cuantico despues de CNOT (SUMA)"
	case StageCarry:
		what = "Circuito cuantico despues de Toffoli (Acarreo)"
	default:
		what = "Circuito cuantico final"
	}
	return withSuffix(fmt.Sprintf("%s para A=%d, B=%d", what, p.A, p.B), suffix)
}

func withSuffix(title, suffix string) string {
	if suffix == "" {
		return title
	}
	return title + " " + suffix
}

// ResultsText renders the results file.
func ResultsText(r Result) string {
	return fmt.Sprintf("A=%d, B=%d Resultado mas probable: Suma = %d, Acarreo = %d\nDistribucion completa de resultados: %s\n",
		r.Pair.A, r.Pair.B, r.Sum, r.Carry, r.Counts)
}

// SummaryText renders the narrative summary file.
func SummaryText(r Result, suffix string) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s:\n", withSuffix(fmt.Sprintf("Resumen para A=%d, B=%d", r.Pair.A, r.Pair.B), suffix))
	fmt.Fprintf(&b, "- Se inicializan los qubits A y B en los estados %d y %d, respectivamente.\n", r.Pair.A, r.Pair.B)
	b.WriteString("- Se aplica la puerta CNOT para obtener la suma (A xor B).\n")
	b.WriteString("- Se aplican la puerta Toffoli (CCNOT) y un CNOT desde A para obtener el acarreo (A . B).\n")
	b.WriteString("- Se mide el qubit 1 para la suma y el qubit 2 para el acarreo.\n")
	fmt.Fprintf(&b, "- Se ejecutan %d repeticiones en el simulador %s.\n", r.Shots, r.Backend)
	fmt.Fprintf(&b, "- El resultado mas probable es suma = %d, acarreo = %d.\n", r.Sum, r.Carry)
	b.WriteString("- Se genera un histograma que muestra la probabilidad de cada resultado posible.\n")
	b.WriteString("- Finalmente se muestran los estados de entrada de los qubits A y B en un grafico.\n")
	return b.String()
}

// writeFile writes to a temporary sibling and renames it over path, so a
// failed render never leaves a truncated artifact behind.
func writeFile(path string, src io.WriterTo) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := src.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Reporter produces the report bundle of a single pair.
type Reporter struct {
	cfg     *Config
	backend Backend
	logger  *zap.Logger
}

func NewReporter(cfg *Config, backend Backend, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{cfg: cfg, backend: backend, logger: logger}
}

// Simulate runs the pair's half adder on the backend and decodes the mode.
func (r *Reporter) Simulate(ctx context.Context, p InputPair) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	counts, err := r.backend.Run(ctx, BuildHalfAdder(p), r.cfg.Shots)
	if err != nil {
		return Result{}, fmt.Errorf("simulate: %w", err)
	}
	mode, err := counts.Mode()
	if err != nil {
		return Result{}, err
	}
	sum, carry, err := DecodeOutcome(mode)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Pair:    p,
		Counts:  counts,
		Mode:    mode,
		Sum:     sum,
		Carry:   carry,
		Shots:   r.cfg.Shots,
		Backend: r.backend.Name(),
	}, nil
}

// Report simulates the pair and writes its eight artifacts.
func (r *Reporter) Report(ctx context.Context, p InputPair) (Result, error) {
	log := r.logger.With(zap.Int("a", p.A), zap.Int("b", p.B))

	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	// Nothing is written until the simulation succeeded.
	res, err := r.Simulate(ctx, p)
	if err != nil {
		return Result{}, err
	}
	log.Debug("simulated", zap.String("mode", res.Mode), zap.Stringer("counts", res.Counts))

	dir := filepath.Join(r.cfg.OutputDir, ReportDir(p))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create report dir: %w", err)
	}
	res.Dir = dir
	size := imageSize{Width: r.cfg.Image.Width, Height: r.cfg.Image.Height}

	for _, s := range Stages {
		img, err := renderDiagram(BuildStage(p, s), stageTitle(p, s, r.cfg.TitleSuffix), size)
		if err != nil {
			return Result{}, fmt.Errorf("render %s diagram: %w", s, err)
		}
		if err := writeFile(filepath.Join(dir, DiagramName(p, s)), img); err != nil {
			return Result{}, err
		}
		log.Debug("wrote diagram", zap.Stringer("stage", s))
	}

	hist, err := renderHistogram(res.Counts, withSuffix(fmt.Sprintf("Distribucion de resultados para A=%d, B=%d", p.A, p.B), r.cfg.TitleSuffix), size)
	if err != nil {
		return Result{}, fmt.Errorf("render histogram: %w", err)
	}
	if err := writeFile(filepath.Join(dir, HistogramName(p)), hist); err != nil {
		return Result{}, err
	}

	if err := writeFile(filepath.Join(dir, ResultsName(p)), bytes.NewBufferString(ResultsText(res))); err != nil {
		return Result{}, err
	}

	inputs, err := renderInputState(p, withSuffix(fmt.Sprintf("Estado de los Quibits de Entrada para A=%d, B=%d", p.A, p.B), r.cfg.TitleSuffix), size)
	if err != nil {
		return Result{}, fmt.Errorf("render input state: %w", err)
	}
	if err := writeFile(filepath.Join(dir, InputStateName(p)), inputs); err != nil {
		return Result{}, err
	}

	if err := writeFile(filepath.Join(dir, SummaryName(p)), bytes.NewBufferString(SummaryText(res, r.cfg.TitleSuffix))); err != nil {
		return Result{}, err
	}

	log.Info("report written", zap.String("dir", dir), zap.Int("sum", res.Sum), zap.Int("carry", res.Carry))
	return res, nil
}
