package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath  string
	outputDir   string
	shots       int
	backendName string
	seed        uint64
	concurrency int
	verbose     bool

	// qasm flags
	qasmA     int
	qasmB     int
	qasmStage string

	cfg    *Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qhalfadder",
	Short: "Simulate a quantum half adder for every input pair and write reports",
	Long: `qhalfadder builds the half-adder circuit (CX for the sum, Toffoli for the
carry) for A,B in {00, 01, 10, 11}, runs it on a simulator backend and writes a
report directory per pair with circuit diagrams, a histogram and text summaries.

Run without a subcommand to generate the reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadRunConfig(cmd)
		if err != nil {
			return err
		}

		// The viewer owns the terminal.
		if cmd.Name() == "view" {
			logger = zap.NewNop()
			return nil
		}
		logger, err = newLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runReports,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the report bundle of every input pair",
	Args:  cobra.NoArgs,
	RunE:  runReports,
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the circuits and distributions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := NewBackend(cfg.Backend, cfg.Seed)
		if err != nil {
			return err
		}
		p := tea.NewProgram(initialModel(NewReporter(cfg, backend, logger)), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var qasmCmd = &cobra.Command{
	Use:   "qasm",
	Short: "Print the OpenQASM of one half-adder stage",
	Example: `  qhalfadder qasm --a 1 --b 1
  qhalfadder qasm --a 0 --b 1 --stage sum`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pair := InputPair{A: qasmA, B: qasmB}
		if err := pair.Validate(); err != nil {
			return err
		}
		stage, err := ParseStage(qasmStage)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), BuildStage(pair, stage).ToQASM())
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate FILE.qasm",
	Short: "Run an OpenQASM file (x, cx, ccx, measure) and print its distribution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var c Circuit
		if err := c.ParseQASM(string(src)); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		backend, err := NewBackend(cfg.Backend, cfg.Seed)
		if err != nil {
			return err
		}
		counts, err := backend.Run(cmd.Context(), &c, cfg.Shots)
		if err != nil {
			return err
		}
		mode, err := counts.Mode()
		if err != nil {
			return err
		}
		logger.Debug("simulated file", zap.String("file", args[0]), zap.Int("gates", len(c.Gates)))

		out := cmd.OutOrStdout()
		fmt.Fprint(out, RenderCircuit(&c, -1))
		fmt.Fprintf(out, "\nMeasured: %s\n", measurementMap(&c))
		fmt.Fprintf(out, "Most probable: %s\nCounts: %s\n\n", mode, counts)
		fmt.Fprint(out, RenderCounts(counts, 60))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory the report folders are written to")
	rootCmd.PersistentFlags().IntVar(&shots, "shots", 0, "Number of simulation shots")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Simulation backend (statevector, classical)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Sampler seed (0 = random)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "Pairs simulated at once")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	qasmCmd.Flags().IntVar(&qasmA, "a", 0, "Input bit A")
	qasmCmd.Flags().IntVar(&qasmB, "b", 0, "Input bit B")
	qasmCmd.Flags().StringVar(&qasmStage, "stage", StageFinal.String(), "Stage: initial, sum, carry or final")

	rootCmd.AddCommand(runCmd, viewCmd, qasmCmd, simulateCmd)
}

// loadRunConfig layers the config file, the environment and explicit flags.
func loadRunConfig(cmd *cobra.Command) (*Config, error) {
	c, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.OutputDir = outputDir
	}
	if flags.Changed("shots") {
		c.Shots = shots
	}
	if flags.Changed("backend") {
		c.Backend = backendName
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("concurrency") {
		c.Concurrency = concurrency
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// measurementMap lists which qubit feeds each classical bit, e.g. "c0<-q1 c1<-q2".
func measurementMap(c *Circuit) string {
	var parts []string
	for cbit, q := range c.Measurements() {
		if q < 0 {
			parts = append(parts, fmt.Sprintf("c%d<-none", cbit))
			continue
		}
		parts = append(parts, fmt.Sprintf("c%d<-q%d", cbit, q))
	}
	return strings.Join(parts, " ")
}

func runReports(cmd *cobra.Command, args []string) error {
	backend, err := NewBackend(cfg.Backend, cfg.Seed)
	if err != nil {
		return err
	}
	log := logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("generating reports",
		zap.String("output", cfg.OutputDir),
		zap.String("backend", backend.Name()),
		zap.Int("shots", cfg.Shots),
	)

	results, err := NewRunner(cfg, backend, log).Run(cmd.Context())
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "A=%d B=%d -> Suma=%d Acarreo=%d  %s  %s\n",
			r.Pair.A, r.Pair.B, r.Sum, r.Carry, r.Counts, r.Dir)
	}
	if err != nil {
		return fmt.Errorf("%d of %d pairs failed: %w", len(multierr.Errors(err)), len(Combinations), err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
