package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	v1 "github.com/OriD-19/fpsmeter/api/v1"
)

type TextOutput struct{}

func (t *TextOutput) OutputParam(par v1.Parameter, w io.Writer) error {
	switch p := par.(type) {
	case *v1.PeriodMetrics:
		return t.outputPeriod(*p, w)
	case v1.PeriodMetrics:
		return t.outputPeriod(p, w)
	case *v1.Summary:
		return t.outputSummary(*p, w)
	case v1.Summary:
		return t.outputSummary(p, w)
	default:
		return fmt.Errorf("unsupported parameter kind: %s", par.Kind())
	}
}

// outputPeriod writes the one-line live readout for a period.
func (t *TextOutput) outputPeriod(pm v1.PeriodMetrics, w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %8.0f-%-8.0fms | frames: %4d | fps: %6.1f",
		pm.MeterID, pm.WindowStart, pm.WindowEnd, pm.Frames, pm.Rate))
	if pm.SlowDelta != nil {
		sb.WriteString(fmt.Sprintf(" | slow frame: %.2fms", *pm.SlowDelta))
	}
	if pm.Coalesced > 0 {
		sb.WriteString(fmt.Sprintf(" | late by %d period(s)", pm.Coalesced))
	}
	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

func (t *TextOutput) outputSummary(s v1.Summary, w io.Writer) error {
	var sb strings.Builder

	// Header
	sb.WriteString("=== Frame Rate Statistics ===\n\n")

	// Identity
	sb.WriteString(fmt.Sprintf("Meter: %s\n", s.MeterID))
	sb.WriteString(fmt.Sprintf("Strategy: %s\n", s.Strategy))

	// Measurement window
	sb.WriteString(fmt.Sprintf("Duration: %s\n", s.Duration.Round(time.Millisecond)))
	if s.Started != nil {
		sb.WriteString(fmt.Sprintf("Started: %s\n", s.Started.Format(time.RFC3339)))
	}
	if s.Ended != nil {
		sb.WriteString(fmt.Sprintf("Ended: %s\n", s.Ended.Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	// Volume
	sb.WriteString(fmt.Sprintf("Periods: %d\n", s.Periods))
	if s.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("Skipped: %d\n", s.Skipped))
	}
	sb.WriteString("\n")

	if s.Periods == 0 {
		sb.WriteString("No complete periods measured.\n")
		_, err := w.Write([]byte(sb.String()))
		return err
	}

	sb.WriteString("--- Summary Statistics ---\n")
	sb.WriteString(fmt.Sprintf("Mean: %s\n", formatFPS(s.Mean)))
	sb.WriteString(fmt.Sprintf("StdDev: %s\n", formatFPS(s.StdDev)))
	if s.CV != nil {
		sb.WriteString(fmt.Sprintf("CV: %.4f\n", *s.CV))
	}
	if s.Min != nil {
		sb.WriteString(fmt.Sprintf("Min: %s\n", formatFPS(*s.Min)))
	}
	if s.Max != nil {
		sb.WriteString(fmt.Sprintf("Max: %s\n", formatFPS(*s.Max)))
	}
	sb.WriteString("\n")

	if len(s.Percentiles) > 0 {
		sb.WriteString("--- Percentiles ---\n")
		order := []string{"p50", "p90", "p95", "p99", "p99_9"}
		for _, key := range order {
			if val, ok := s.Percentiles[key]; ok {
				sb.WriteString(fmt.Sprintf("%s: %s\n", key, formatFPS(val)))
			}
		}
		var rest []string
		for key := range s.Percentiles {
			if !contains(order, key) {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		for _, key := range rest {
			sb.WriteString(fmt.Sprintf("%s: %s\n", key, formatFPS(s.Percentiles[key])))
		}
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

func formatFPS(v float64) string {
	return fmt.Sprintf("%.1f fps", v)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
