package geometry

import (
	"math"
	"strings"

	"github.com/wesen/neograph/pkg/graphmodel"
)

const (
	maxCaptionChars = 100
	maxCaptionLines = 3
	ellipsis        = "…"
)

// fitCaptionIntoCircle breaks a node caption into at most three lines that
// fit inside the node circle. The last line is cut with an ellipsis when
// the words do not all fit.
func (g *Geometry) fitCaptionIntoCircle(n *graphmodel.NodeModel, caption string, fontSize float64) []graphmodel.CaptionLine {
	if r := []rune(caption); len(r) > maxCaptionChars {
		caption = string(r[:maxCaptionChars])
	}
	words := strings.Fields(caption)
	if len(words) == 0 {
		return nil
	}
	lineHeight := fontSize
	padding := 2.0

	fitOnLines := func(count int) ([]graphmodel.CaptionLine, int) {
		lines := make([]graphmodel.CaptionLine, 0, count)
		w := 0
		for i := 0; i < count; i++ {
			baseline := (float64(i) - float64(count-1)/2) * lineHeight
			// Width of the chord at the far edge of the line.
			edge := math.Abs(baseline) + lineHeight/2
			avail := 0.0
			if r := n.Radius - padding; edge < r {
				avail = 2 * math.Sqrt(r*r-edge*edge)
			}
			var text string
			for w < len(words) {
				candidate := words[w]
				if text != "" {
					candidate = text + " " + words[w]
				}
				if text != "" && g.measure(candidate, fontSize) > avail {
					break
				}
				text = candidate
				w++
			}
			lines = append(lines, graphmodel.CaptionLine{Text: text, Baseline: baseline})
		}
		return lines, w
	}

	var lines []graphmodel.CaptionLine
	used := 0
	for count := 1; count <= maxCaptionLines; count++ {
		lines, used = fitOnLines(count)
		if used == len(words) {
			break
		}
	}

	last := &lines[len(lines)-1]
	if used < len(words) {
		last.Text = strings.Join(append([]string{last.Text}, words[used:]...), " ")
	}
	edge := math.Abs(last.Baseline) + lineHeight/2
	avail := 0.0
	if r := n.Radius - padding; edge < r {
		avail = 2 * math.Sqrt(r*r-edge*edge)
	}
	if used < len(words) || g.measure(last.Text, fontSize) > avail {
		last.Text = g.shorten(last.Text, avail, fontSize)
	}
	return lines
}

// shorten drops trailing characters, adding an ellipsis, until text is
// narrower than width. It returns "" when nothing fits.
func (g *Geometry) shorten(text string, width, fontSize float64) string {
	if g.measure(text, fontSize) <= width {
		return text
	}
	runes := []rune(strings.TrimSuffix(text, ellipsis))
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if g.measure(candidate, fontSize) <= width {
			return candidate
		}
	}
	return ""
}

// shortenRelationshipCaption trims a relationship caption to the shaft,
// two characters at a time, as the browser does.
func (g *Geometry) shortenRelationshipCaption(caption string, width, fontSize, padding float64) (string, float64) {
	short := []rune(caption)
	if len(short) == 0 {
		short = []rune("caption")
	}
	for {
		if len(short) <= 2 {
			return "", 0
		}
		short = append(short[:len(short)-2:len(short)-2], []rune(ellipsis)...)
		w := g.measure(string(short), fontSize) + 2*padding
		if w < width {
			return string(short), w
		}
	}
}
