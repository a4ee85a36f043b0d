package main

import (
	"fmt"
	"strings"
)

// stageLabels are the tab captions of each stage.
var stageLabels = map[Stage]string{
	StageInitial: "Inicial",
	StageSum:     "Suma (CX)",
	StageCarry:   "Acarreo (CCX)",
	StageFinal:   "Final",
}

// renderTabs renders the input-pair and stage selectors.
func (m Model) renderTabs() string {
	var sb strings.Builder

	sb.WriteString(dimStyle.Render(" Inputs "))
	for i, p := range Combinations {
		name := fmt.Sprintf(" %d:%d%d ", i+1, p.A, p.B)
		if i == m.pairIdx {
			sb.WriteString(activeTabStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(Combinations)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}

	sb.WriteString(dimStyle.Render("    Stage "))
	for i, s := range Stages {
		name := " " + stageLabels[s] + " "
		if s == m.stage {
			sb.WriteString(activeTabStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(Stages)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}

	return sb.String()
}
