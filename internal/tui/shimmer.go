package tui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// ShimmerConfig holds configuration for shimmer effects
type ShimmerConfig struct {
	Enabled        bool
	ReduceMotion   bool // static highlight instead of animation
	SpeedMs        int
	WidthRatio     float64
	CycleMs        int
	PauseBetweenMs int
}

// DefaultShimmerConfig returns default shimmer configuration. NO_MOTION in
// the environment turns animation off.
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:        true,
		ReduceMotion:   os.Getenv("NO_MOTION") != "",
		SpeedMs:        100,
		WidthRatio:     0.25,
		CycleMs:        1800,
		PauseBetweenMs: 500,
	}
}

// Shimmer sweeps a highlight across a line of text. It is used on the
// selected card title and on the badge banner.
type Shimmer struct {
	center     float64
	lastUpdate time.Time
	active     bool
	paused     bool
	pauseStart time.Time
	trueColor  bool
	cfg        ShimmerConfig
}

func NewShimmer(cfg ShimmerConfig) *Shimmer {
	return &Shimmer{
		lastUpdate: time.Now(),
		active:     cfg.Enabled && !cfg.ReduceMotion,
		trueColor:  os.Getenv("COLORTERM") == "truecolor",
		cfg:        cfg,
	}
}

// advance moves the highlight for a text of n glyphs.
func (s *Shimmer) advance(n int, now time.Time) {
	if !s.active || n <= 0 || now.Sub(s.lastUpdate).Milliseconds() < int64(s.cfg.SpeedMs) {
		return
	}

	if s.paused {
		if now.Sub(s.pauseStart).Milliseconds() >= int64(s.cfg.PauseBetweenMs) {
			s.paused = false
			s.center = -float64(n) * s.cfg.WidthRatio
		}
		s.lastUpdate = now
		return
	}

	// the highlight starts and ends outside the text
	ticks := float64(s.cfg.CycleMs) / float64(s.cfg.SpeedMs)
	distance := float64(n) * (1 + 2*s.cfg.WidthRatio)
	s.center += distance / ticks

	end := float64(n) * (1 + s.cfg.WidthRatio)
	if s.center >= end {
		s.paused = true
		s.pauseStart = now
		s.center = end
	}
	s.lastUpdate = now
}

// Reset restarts the sweep, e.g. when the selection changes.
func (s *Shimmer) Reset() {
	s.center = 0
	s.lastUpdate = time.Now()
	s.paused = false
}

func (s *Shimmer) SetActive(active bool) {
	s.active = active && s.cfg.Enabled && !s.cfg.ReduceMotion
}

func (s *Shimmer) Active() bool { return s.active }

// Interval is the tick interval to drive the animation with.
func (s *Shimmer) Interval() time.Duration {
	return time.Duration(s.cfg.SpeedMs) * time.Millisecond
}

// Render truncates text to maxWidth glyphs and paints the highlight.
func (s *Shimmer) Render(text string, maxWidth int) string {
	runes := []rune(truncate(text, maxWidth))
	if len(runes) == 0 {
		return ""
	}
	s.advance(len(runes), time.Now())

	if !s.active {
		return fmt.Sprintf("\033[38;2;167;139;250m%s\033[0m", string(runes))
	}
	if !s.trueColor {
		return s.renderFallback(runes)
	}
	return s.renderTrueColor(runes)
}

func (s *Shimmer) renderTrueColor(runes []rune) string {
	var b strings.Builder
	// base #B1B8C7, highlight #EAE6FF
	baseR, baseG, baseB := 177.0, 184.0, 199.0
	hiR, hiG, hiB := 234.0, 230.0, 255.0

	sigma := math.Max(1, s.cfg.WidthRatio*float64(len(runes))/2)
	for i, r := range runes {
		dx := float64(i) - s.center
		w := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm%c",
			int(baseR*(1-w)+hiR*w),
			int(baseG*(1-w)+hiG*w),
			int(baseB*(1-w)+hiB*w),
			r)
	}
	b.WriteString("\033[0m")
	return b.String()
}

func (s *Shimmer) renderFallback(runes []rune) string {
	width := max(1, int(s.cfg.WidthRatio*float64(len(runes))))
	start := int(s.center) - width/2

	var b strings.Builder
	for i, r := range runes {
		if i >= start && i < start+width {
			fmt.Fprintf(&b, "\033[38;5;147m%c", r)
		} else {
			fmt.Fprintf(&b, "\033[38;5;250m%c", r)
		}
	}
	b.WriteString("\033[0m")
	return b.String()
}

// truncate shortens s to at most n glyphs, ending with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
