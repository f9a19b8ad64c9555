// Package observability provides formatted CLI output and process metrics.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careeriq/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer renders backend results for the terminal.
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends up to limit bullet items and a "more" marker.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintPrediction outputs the success probability, its level and the
// factors and recommendations behind it.
func (p *Printer) PrintPrediction(result *types.PredictionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Success probability: %.1f%%\n", result.SuccessProbability))
	sb.WriteString(fmt.Sprintf("Level:               %s\n\n", types.SuccessLevel(result.SuccessProbability)))
	writeList(&sb, "Top factors", result.TopFactors, maxItemsToShow)
	writeList(&sb, "Recommendations", result.Recommendations, maxItemsToShow)

	p.printBox("CAREER SUCCESS PREDICTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeAnalysis outputs ATS and readability scores with their bands,
// the detected sentiment, skills, bias terms and tips.
func (p *Printer) PrintResumeAnalysis(result *types.ResumeAnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	ats := int(result.ATSScore)
	readability := result.DisplayReadability()
	sb.WriteString(fmt.Sprintf("ATS score:    %d/100 (%s)\n", ats, types.ScoreBand(float64(ats))))
	sb.WriteString(fmt.Sprintf("Readability:  %d/100 (%s)\n", readability, types.ScoreBand(float64(readability))))
	sb.WriteString(fmt.Sprintf("Sentiment:    %s\n\n", result.DisplaySentiment()))

	if len(result.Skills) > 0 {
		skills := strings.Join(result.Skills, ", ")
		if len(skills) > 120 {
			skills = skills[:117] + "..."
		}
		sb.WriteString("Skills detected:\n")
		for _, line := range wrap(skills, boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
		sb.WriteString("\n")
	}

	if len(result.BiasDetected) > 0 {
		writeList(&sb, "⚠️  Potential bias", result.BiasDetected, maxItemsToShow)
	} else {
		sb.WriteString("✅ No biased language detected\n\n")
	}
	writeList(&sb, "Improvement tips", result.ImprovementTips, maxItemsToShow)

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs outputs the recommended jobs ordered as received.
func (p *Printer) PrintJobs(jobs []types.Job) {
	if len(jobs) == 0 {
		p.printBox("JOB RECOMMENDATIONS", "No matching jobs found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d jobs:\n\n", len(jobs)))
	for i, job := range jobs {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", job.Company, job.Location))
		sb.WriteString(fmt.Sprintf("    Salary: %s  Match: %.0f%%\n", job.Salary, job.MatchScore))
		if len(job.Skills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", job.Skills.String()))
		}
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("JOB RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLearningPath outputs the skill gap, timeline and recommended courses.
func (p *Printer) PrintLearningPath(path *types.LearningPath) {
	if path == nil {
		return
	}

	var sb strings.Builder
	if path.TargetRole != "" {
		sb.WriteString(fmt.Sprintf("Target role: %s\n", RoleLabel(path.TargetRole)))
	}
	sb.WriteString(fmt.Sprintf("Timeline:    %s\n\n", path.EstimatedTimeline))
	writeList(&sb, "Required skills", path.RequiredSkills, 10)
	if len(path.SkillGap) > 0 {
		writeList(&sb, "Skill gap", path.SkillGap, 10)
	} else {
		sb.WriteString("✅ No skill gap\n\n")
	}

	if len(path.RecommendedCourses) > 0 {
		sb.WriteString("Recommended courses:\n")
		count := min(len(path.RecommendedCourses), maxItemsToShow)
		for i := 0; i < count; i++ {
			c := path.RecommendedCourses[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", c.Title, c.Platform))
			sb.WriteString(fmt.Sprintf("    %s · %s · relevance %.0f%%\n", c.Duration, c.Price, c.RelevanceScore))
		}
		if len(path.RecommendedCourses) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(path.RecommendedCourses)-maxItemsToShow))
		}
	}

	p.printBox("LEARNING PATH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs the user's activity, badges and market trends.
func (p *Printer) PrintDashboard(d *types.Dashboard) {
	if d == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:             %s\n", d.UserLevel))
	sb.WriteString(fmt.Sprintf("Predictions made:  %d\n", d.PredictionsMade))
	sb.WriteString(fmt.Sprintf("Resumes analyzed:  %d\n\n", d.ResumesAnalyzed))
	writeList(&sb, "Badges", d.Badges, 10)

	if len(d.SalaryTrends) > 0 {
		sb.WriteString("Salary trends:\n")
		for _, s := range d.SalaryTrends {
			sb.WriteString(fmt.Sprintf("  %-28s $%.0f\n", s.Role, s.AvgSalary))
		}
		sb.WriteString("\n")
	}

	if len(d.TopSkills) > 0 {
		sb.WriteString("Top skills in demand:\n")
		for _, s := range d.TopSkills {
			sb.WriteString(fmt.Sprintf("  %-16s %s %.0f%%\n", s.Skill, bar(s.Demand, 20), s.Demand))
		}
	}

	p.printBox("DASHBOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReply writes one chat turn without a box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReply(speaker, text string) {
	fmt.Fprintf(p.out, "%s: %s\n", speaker, text)
}

// RoleLabel turns a target role identifier into a display label.
func RoleLabel(role string) string {
	words := strings.Split(role, "_")
	for i, w := range words {
		switch w {
		case "ml":
			words[i] = "ML"
		case "devops":
			words[i] = "DevOps"
		default:
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
