package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/lotofacil/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	barChar             = "#"
	minBarWidth         = 10
	terminalWidthBackup = 80
)

// Bar is one labeled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderBars prints a horizontal bar chart scaled to width columns.
// A width <= 0 uses the terminal width.
func RenderBars(w io.Writer, title string, bars []Bar, width int) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth := 0
	maxVal := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		maxVal = math.Max(maxVal, b.Value)
	}
	valueWidth := len(fmt.Sprintf("%.0f", maxVal))
	barWidth := max(minBarWidth, width-labelWidth-valueWidth-4)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, b := range bars {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(b.Value / maxVal * float64(barWidth)))
		}
		line := fmt.Sprintf("%s | %s %*.0f", runewidth.FillLeft(b.Label, labelWidth), runewidth.FillRight(strings.Repeat(barChar, n), barWidth), valueWidth, b.Value)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RankingBars converts a ranking into chart bars in ranking order.
func RankingBars(r model.Ranking) []Bar {
	bars := make([]Bar, len(r))
	for i, e := range r {
		bars[i] = Bar{Label: fmt.Sprintf("%02d", e.Number), Value: float64(e.Score)}
	}
	return bars
}

// RenderSumTrend prints the moving average of draw sums as a sparkline.
func RenderSumTrend(w io.Writer, sums SumSummary, window, width int) error {
	if len(sums.Series) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	avg := MovingAverage(sums.Series, window)
	resampled := Resample(avg, max(1, width-2))
	minVal, maxVal := resampled[0], resampled[0]
	for _, v := range resampled {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if _, err := fmt.Fprintf(w, "Sum trend (window %d): %.1f .. %.1f\n", window, minVal, maxVal); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "[%s]\n", Sparkline(resampled))
	return err
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
