package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/anistream/pkg/app/styles"
	"github.com/kerbaras/anistream/pkg/services"
)

// ProgressTracker shows the state of each source while an episode resolves.
type ProgressTracker struct {
	sources map[int]*services.ResolveProgress
	total   int
	width   int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		sources: make(map[int]*services.ResolveProgress),
		width:   width,
	}
}

func (p *ProgressTracker) Update(progress services.ResolveProgress) {
	prog := progress // Copy
	p.sources[progress.Index] = &prog
	if progress.Total > p.total {
		p.total = progress.Total
	}
}

func (p *ProgressTracker) Clear() {
	p.sources = make(map[int]*services.ResolveProgress)
	p.total = 0
}

// Finished counts sources that are no longer resolving.
func (p *ProgressTracker) Finished() int {
	n := 0
	for _, s := range p.sources {
		if s.Status != "resolving" {
			n++
		}
	}
	return n
}

func (p *ProgressTracker) HasActive() bool {
	return p.total > 0 && p.Finished() < p.total
}

func (p *ProgressTracker) View() string {
	if len(p.sources) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Resolving Sources"))
	b.WriteString("\n\n")

	done := p.Finished()
	b.WriteString(renderProgressBar(done, p.total, p.width-4))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d/%d sources", done, p.total)))
	b.WriteString("\n\n")

	indexes := make([]int, 0, len(p.sources))
	for i := range p.sources {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		progress := p.sources[i]
		line := fmt.Sprintf("%s: %s", progress.Source, progress.Status)
		if progress.Status == "complete" {
			line = fmt.Sprintf("%s (%d streams)", line, progress.Streams)
		}
		b.WriteString(styles.StatusStyle(progress.Status).Render(line))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
