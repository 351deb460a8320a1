package inspection

import (
	"regexp"
	"strings"
)

// Narrative is the cleaned, room-grouped text produced by the normalizer.
// Room blocks are separated by a blank line.
type Narrative string

// Blocks returns the room blocks in order.
func (n Narrative) Blocks() []string {
	var blocks []string
	for _, b := range strings.Split(string(n), "\n\n") {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

var (
	separatorLine = regexp.MustCompile(`^\s*(?:-{3,}|={3,}|\*{3,}|_{3,})\s*$`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// tidyNarrative applies the deterministic part of normalisation to the model
// output: fences, separators, blank-line runs and spelled-out floor ordinals.
func tidyNarrative(text string) Narrative {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = stripCodeFences(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if separatorLine.MatchString(line) {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = DigitizeFloorOrdinals(text)
	return Narrative(strings.TrimSpace(text))
}

// stripCodeFences removes a leading ```lang line and a trailing ``` line.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
