// Package subrip reads and writes SRT and WebVTT caption files. Format is
// chosen by file extension; the rest of the pipeline only sees generic cues.
package subrip

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"scrub/internal/types"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

var (
	srtTiming = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)
	// Inline cue timestamps and <c> spans show up in auto-generated VTT.
	inlineTag = regexp.MustCompile(`<[^>]*>`)
	spaceRuns = regexp.MustCompile(`[ \t]+`)
)

func (a *Adapter) Parse(path string) ([]types.Cue, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.ReplaceAll(string(b), "\r\n", "\n")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		return parseCues(stripVTTHeader(content)), nil
	default:
		return parseCues(content), nil
	}
}

func (a *Adapter) Write(path string, cues []types.Cue) error {
	var out string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vtt":
		out = formatVTT(cues)
	default:
		out = formatSRT(cues)
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

// parseCues handles both formats: blocks separated by blank lines, a timing
// line, then text. SRT index lines and VTT cue identifiers are skipped.
func parseCues(content string) []types.Cue {
	var cues []types.Cue
	var cur *types.Cue
	var text []string

	flush := func() {
		if cur != nil {
			cur.Text = cleanText(strings.Join(text, "\n"))
			if cur.Text != "" {
				cues = append(cues, *cur)
			}
		}
		cur = nil
		text = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if m := srtTiming.FindStringSubmatch(line); m != nil {
			flush()
			cur = &types.Cue{
				Start: timeToSeconds(m[1:5]),
				End:   timeToSeconds(m[5:9]),
			}
			continue
		}
		if cur == nil {
			continue // index line, cue id, or stray metadata
		}
		text = append(text, line)
	}
	flush()
	return cues
}

func stripVTTHeader(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "WEBVTT") {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

// cleanText drops inline tags and collapses whitespace, keeping line breaks.
func cleanText(text string) string {
	text = inlineTag.ReplaceAllString(text, "")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func timeToSeconds(parts []string) float64 {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	ms, _ := strconv.Atoi(parts[3])
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

func formatSRT(cues []types.Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, formatTime(c.Start, ','), formatTime(c.End, ','), c.Text)
	}
	return b.String()
}

func formatVTT(cues []types.Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatTime(c.Start, '.'), formatTime(c.End, '.'), c.Text)
	}
	return b.String()
}

func formatTime(sec float64, msSep byte) string {
	if sec < 0 {
		sec = 0
	}
	total := int(math.Round(sec * 1000))
	ms := total % 1000
	s := total / 1000 % 60
	m := total / 60000 % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, msSep, ms)
}
