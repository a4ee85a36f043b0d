package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// resultsMsg carries the simulated distributions of every pair.
type resultsMsg struct {
	results map[InputPair]Result
	errs    map[InputPair]error
}

// Model represents the viewer state.
type Model struct {
	reporter   *Reporter
	pairIdx    int
	stage      Stage
	circuit    *Circuit // circuit of the selected pair and stage
	cursorStep int
	width      int
	height     int
	qasmView   textarea.Model
	results    map[InputPair]Result
	errs       map[InputPair]error
	statusMsg  string
}

func initialModel(reporter *Reporter) Model {
	ta := textarea.New()
	ta.SetWidth(40)
	ta.SetHeight(16)
	ta.ShowLineNumbers = true
	ta.Blur()

	m := Model{
		reporter: reporter,
		stage:    StageFinal,
		qasmView: ta,
	}
	m.syncCircuit()
	m.statusMsg = "Simulating…"
	return m
}

func (m *Model) pair() InputPair {
	return Combinations[m.pairIdx]
}

// syncCircuit rebuilds the circuit view for the selected pair and stage.
func (m *Model) syncCircuit() {
	m.circuit = BuildStage(m.pair(), m.stage)
	m.cursorStep = min(max(m.cursorStep, 0), max(m.circuit.MaxSteps-1, 0))
	m.qasmView.SetValue(m.circuit.ToQASM())
}

func simulateAll(reporter *Reporter) tea.Cmd {
	return func() tea.Msg {
		msg := resultsMsg{
			results: make(map[InputPair]Result),
			errs:    make(map[InputPair]error),
		}
		for _, p := range Combinations {
			res, err := reporter.Simulate(context.Background(), p)
			if err != nil {
				msg.errs[p] = err
				continue
			}
			msg.results[p] = res
		}
		return msg
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return simulateAll(m.reporter)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmView.SetWidth(qasmW)
		m.qasmView.SetHeight(max(msg.Height-22, 4))

	case resultsMsg:
		m.results = msg.results
		m.errs = msg.errs
		m.statusMsg = ""
		if len(msg.errs) > 0 {
			m.statusMsg = fmt.Sprintf("%d pair(s) failed to simulate", len(msg.errs))
		}

	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			if m.cursorStep > 0 {
				m.cursorStep--
			}
		case "l":
			if m.cursorStep < m.circuit.MaxSteps-1 {
				m.cursorStep++
			}
		case "tab":
			m.stage = Stages[(int(m.stage)+1)%len(Stages)]
			m.syncCircuit()
		case "shift+tab":
			m.stage = Stages[(int(m.stage)+len(Stages)-1)%len(Stages)]
			m.syncCircuit()
		case "right", "n", "down", "j":
			m.pairIdx = (m.pairIdx + 1) % len(Combinations)
			m.syncCircuit()
		case "left", "p", "up", "k":
			m.pairIdx = (m.pairIdx + len(Combinations) - 1) % len(Combinations)
			m.syncCircuit()
		case "1", "2", "3", "4":
			m.pairIdx = int(key[0] - '1')
			m.syncCircuit()
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 4
	resultsHeight := 8
	circuitHeight := max(m.height-controlsHeight-resultsHeight-6, 10)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := qasmStyle.Width(qasmWidth).Height(circuitHeight).Render(
		titleStyle.Render("OpenQASM") + "\n\n" + m.qasmView.View())
	resultsPanel := m.renderResultsPanel(m.width-4, resultsHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), topRow, resultsPanel, controlsPanel)
}

// renderCircuitPanel renders the circuit grid panel with the state after the cursor step.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(stageTitle(m.pair(), m.stage, "")))
	sb.WriteString("\n\n")
	sb.WriteString(RenderCircuit(m.circuit, m.cursorStep))

	state, err := SimulateCircuit(m.circuit, m.cursorStep)
	if err != nil {
		sb.WriteString("\n" + errorStyle.Render(err.Error()))
	} else {
		fmt.Fprintf(&sb, "\n%s\n", dimStyle.Render(fmt.Sprintf("P(|1⟩) after step %d", m.cursorStep)))
		sb.WriteString(RenderProbabilities(state, width-8))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel renders the selected pair's outcome distribution.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder
	p := m.pair()

	res, ok := m.results[p]
	switch {
	case m.errs[p] != nil:
		sb.WriteString(errorStyle.Render(m.errs[p].Error()))
	case !ok:
		sb.WriteString(dimStyle.Render(m.statusMsg))
	default:
		sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  %d shots on %s", p, res.Shots, res.Backend)))
		sb.WriteString("\n")
		sb.WriteString(activeGateStyle.Render(fmt.Sprintf("Suma = %d, Acarreo = %d", res.Sum, res.Carry)))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  (mode %s)", res.Mode)))
		sb.WriteString("\n")
		sb.WriteString(RenderCounts(res.Counts, width-4))
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("←→/np/1-4 Inputs  hl Step  Tab/S-Tab Stage")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("q"))
	sb.WriteString(" Quit")
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "\n%s", activeGateStyle.Render(m.statusMsg))
	}

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}
