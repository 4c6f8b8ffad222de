package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/call-scorer/internal/scoring"
	"github.com/jonathan/call-scorer/internal/transcription"
	"github.com/jonathan/call-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var bandColors = map[scoring.Band]lipgloss.Color{
	scoring.BandGood: lipgloss.Color("#22c55e"),
	scoring.BandFair: lipgloss.Color("#f59e0b"),
	scoring.BandPoor: lipgloss.Color("#ef4444"),
}

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if lipgloss.Width(line) > boxWidth-4 {
			line = truncate(line, boxWidth-7) + "..."
		}
		pad := boxWidth - 4 - lipgloss.Width(line)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", max(pad, 0)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSpeakerProfiles outputs the per-speaker evidence behind an agent pick
func (p *Printer) PrintSpeakerProfiles(agentID string, profiles []types.SpeakerProfile) {
	if len(profiles) == 0 {
		return
	}

	var sb strings.Builder
	for _, prof := range profiles {
		role := "customer"
		if prof.SpeakerID == agentID {
			role = "AGENT"
		}
		fmt.Fprintf(&sb, "Speaker %s (%s)  score %d\n", prof.SpeakerID, role, prof.AgentScore)
		fmt.Fprintf(&sb, "  words %d in %d utterances, confidence %.1f%%\n",
			prof.WordCount, prof.UtteranceCount, prof.AvgConfidence*100)
		fmt.Fprintf(&sb, "  greeting %s  company %s  professional %s  first %s\n",
			mark(prof.HasGreeting), mark(prof.HasCompanyName), mark(prof.HasProfessionalTerms), mark(prof.FirstSpeaker))
	}

	p.printBox("SPEAKER ROLES", sb.String())
}

// PrintAnalysis outputs the per-criterion scores and the graded total
func (p *Printer) PrintAnalysis(analysis *types.CallAnalysis, rubric *types.Rubric) {
	if analysis == nil {
		return
	}

	names := make(map[string]string)
	maxScores := make(map[string]float64)
	if rubric != nil {
		for _, c := range rubric.Criteria {
			names[c.ID] = c.Name
			maxScores[c.ID] = c.MaxScore
		}
	}

	var sb strings.Builder
	for _, s := range analysis.Scores {
		name := names[s.CriteriaID]
		if name == "" {
			name = s.CriteriaID
		}
		line := fmt.Sprintf("%-36s %5.1f", name, s.Score)
		if maxScore, ok := maxScores[s.CriteriaID]; ok && maxScore > 0 {
			line += fmt.Sprintf(" / %-5g", maxScore)
			line = styleForBand(scoring.BandFor(int(s.Score / maxScore * 100))).Render(line)
		}
		sb.WriteString(line + "\n")
		for _, fragment := range splitFeedback(s.Feedback) {
			sb.WriteString("  " + fragment + "\n")
		}
	}
	sb.WriteString("\n")

	total := fmt.Sprintf("Total: %g / %g  (%d%%)  Grade %s",
		analysis.TotalScore, analysis.MaxPossibleScore, analysis.Percentage, analysis.Grade)
	sb.WriteString(styleForBand(scoring.BandFor(analysis.Percentage)).Bold(true).Render(total) + "\n")
	fmt.Fprintf(&sb, "Weighted: %d%%\n", analysis.WeightedPercentage)

	p.printBox("CALL ANALYSIS", sb.String())
}

// PrintQuality outputs the recognizer confidence summary for a transcription
func (p *Printer) PrintQuality(report transcription.QualityReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Utterances: %d\n", report.Utterances)
	if report.OverallConfidence != nil {
		fmt.Fprintf(&sb, "Confidence: %.1f%%\n", *report.OverallConfidence*100)
	}
	fmt.Fprintf(&sb, "Avg word confidence: %.1f%%\n", report.AvgWordConfidence*100)

	if report.LowOverall() {
		sb.WriteString("⚠ Lower confidence detected; consider improving audio quality.\n")
	}
	if n := len(report.LowConfidenceWords); n > 0 {
		fmt.Fprintf(&sb, "⚠ %d low-confidence words:\n", n)
		count := min(n, maxItemsToShow)
		for i := 0; i < count; i++ {
			w := report.LowConfidenceWords[i]
			fmt.Fprintf(&sb, "  • %q (%.1f%%)\n", w.Text, w.Confidence*100)
		}
		if n > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", n-maxItemsToShow)
		}
	}

	p.printBox("TRANSCRIPT QUALITY", sb.String())
}

func styleForBand(band scoring.Band) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(bandColors[band])
}

// splitFeedback puts each ✓/✗ annotation on its own line
func splitFeedback(feedback string) []string {
	for _, marker := range []string{" ✓ ", " ✗ "} {
		feedback = strings.ReplaceAll(feedback, marker, "\n"+strings.TrimLeft(marker, " "))
	}
	return strings.Split(feedback, "\n")
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
