package main

import (
	"fmt"
	"strings"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate type.
func gateDisplayName(gateType string) string {
	switch gateType {
	case "MEASURE":
		return "M"
	default:
		return gateType
	}
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, cursor bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dblVertRow := strings.Repeat(" ", halfW) + cbitConnectorStyle.Render("║") + strings.Repeat(" ", cellW-halfW-1)

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW

	style := gateStyle
	if cursor {
		style = cursorBoxStyle
	}

	boxed := func(name string) {
		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+padCenter(name, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	}
	connectors := func() {
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
		if info.measureBelow {
			bot = dblVertRow
		}
	}

	switch {
	case info.isBarrier && info.gate.Type == "BARRIER":
		top = vertRow
		mid = strings.Repeat("─", dashL) + "│" + strings.Repeat("─", dashR)
		bot = vertRow

	case info.gate != nil && info.isControl:
		connectors()
		mid = strings.Repeat("─", dashL) + style.Render("●") + strings.Repeat("─", dashR)

	case info.gate != nil && info.isTarget:
		connectors()
		mid = strings.Repeat("─", dashL) + style.Render("⊕") + strings.Repeat("─", dashR)

	case info.gate != nil && info.gate.Type == "MEASURE":
		boxed("M")
		bot = dblVertRow

	case info.gate != nil:
		boxed(gateDisplayName(info.gate.Type))
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow
		if info.measureBelow {
			bot = dblVertRow
		}

	case info.measureBelow:
		// No gate here, but a measurement connection passes through vertically
		top = dblVertRow
		mid = strings.Repeat("─", dashL) + cbitConnectorStyle.Render("╫") + strings.Repeat("─", dashR)
		bot = dblVertRow
		if info.vertAbove {
			top = vertRow
		}

	default:
		// Empty wire
		connectors()
		mid = strings.Repeat("─", cellW)
		if cursor {
			mid = strings.Repeat("─", dashL) + cursorBoxStyle.Render("┼") + strings.Repeat("─", dashR)
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// RenderCircuit renders the circuit grid. cursorStep highlights one column;
// pass -1 for none.
func RenderCircuit(c *Circuit, cursorStep int) string {
	var sb strings.Builder
	steps := max(c.MaxSteps, 1)

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := range steps {
		label := padCenter(fmt.Sprintf("%d", step), cellW)
		if step == cursorStep {
			header += cursorBoxStyle.Render(label)
		} else {
			header += dimStyle.Render(label)
		}
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range c.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := range steps {
			top, mid, bot := renderCell(c.getCellInfo(step, qubit), step == cursorStep)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// ── Classical bit wire (single line) ──
	if c.NumCbits > 0 {
		label := fmt.Sprintf("c%d", c.NumCbits)
		cbitLine := cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render("══")

		for step := range steps {
			if m := c.GetMeasureAtStep(step); m != nil {
				// Show ╩ with the bit index next to it
				bitLabel := fmt.Sprintf("%d", m.Cbit)
				dashL := (cellW - 1) / 2
				dashR := max(cellW-dashL-1-len(bitLabel), 0)
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", dashL)) +
					cbitConnectorStyle.Render("╩"+bitLabel) +
					cbitWireStyle.Render(strings.Repeat("═", dashR))
			} else {
				cbitLine += cbitWireStyle.Render(strings.Repeat("═", cellW))
			}
		}
		sb.WriteString(cbitLine + "\n")
	}

	return sb.String()
}

// RenderCounts renders the distribution as horizontal bars scaled to width.
func RenderCounts(counts Counts, width int) string {
	if len(counts) == 0 {
		return dimStyle.Render("(no outcomes)")
	}
	total := counts.Total()
	maxN := 0
	for _, n := range counts {
		maxN = max(maxN, n)
	}
	barW := max(width-24, 4)

	var sb strings.Builder
	for _, k := range counts.Keys() {
		n := counts[k]
		filled := n * barW / maxN
		fmt.Fprintf(&sb, "%s %s%s %s\n",
			qubitLabelStyle.Render(fmt.Sprintf("%4s", k)),
			barStyle.Render(strings.Repeat("█", filled)),
			dimStyle.Render(strings.Repeat("·", barW-filled)),
			fmt.Sprintf("%5d (%5.1f%%)", n, 100*float64(n)/float64(total)),
		)
	}
	return sb.String()
}

// RenderProbabilities renders P(|1⟩) for each qubit of a state.
func RenderProbabilities(state *StateVector, width int) string {
	barW := max(width-20, 4)
	var sb strings.Builder
	for q, p := range state.GetQubitProbabilities() {
		filled := int(p.Prob1*float64(barW) + 0.5)
		fmt.Fprintf(&sb, "%s %s%s %s\n",
			qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)),
			barStyle.Render(strings.Repeat("█", filled)),
			dimStyle.Render(strings.Repeat("·", barW-filled)),
			fmt.Sprintf("%5.1f%%", 100*p.Prob1),
		)
	}
	return sb.String()
}
