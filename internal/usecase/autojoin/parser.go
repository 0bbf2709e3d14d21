package autojoin

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// NotAvailable marks a section the bot did not print
const NotAvailable = "N/A"

// Tags the bot prints in front of its result lines
const (
	TagAudioPath   = "AUDIO_PATH"
	TagSummary     = "SUMMARY"
	TagKeyPoints   = "KEY_POINTS"
	TagActionItems = "ACTION_ITEMS"
)

var (
	tagLine       = regexp.MustCompile(`^\[([A-Z][A-Z0-9_]*)\]\s?(.*)$`)
	separatorLine = regexp.MustCompile(`^(={3,}|-{3,}|─{3,})$`)
)

// Sections holds the tagged values extracted from the bot output
type Sections struct {
	AudioPath   string
	Summary     string
	KeyPoints   string
	ActionItems string
	// Found is false when the output carried none of the result tags
	Found bool
}

// Raw returns the sections as a map for audit storage
func (s Sections) Raw() map[string]interface{} {
	return map[string]interface{}{
		"audio_path":   s.AudioPath,
		"summary":      s.Summary,
		"key_points":   s.KeyPoints,
		"action_items": s.ActionItems,
	}
}

// HasAudio reports whether the bot printed an audio path
func (s Sections) HasAudio() bool {
	return s.AudioPath != "" && s.AudioPath != NotAvailable
}

// HasSummary reports whether the bot printed summary text
func (s Sections) HasSummary() bool {
	return s.Summary != "" && s.Summary != NotAvailable
}

// ParseOutput extracts the result sections from the bot stdout.
// A tagged line opens a section; untagged lines that follow extend the open
// summary, key points or action items section until the next tagged line or a
// separator line. When a tag repeats, the last occurrence wins.
func ParseOutput(output string) Sections {
	values := map[string]*strings.Builder{}
	var open *strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if match := tagLine.FindStringSubmatch(line); match != nil {
			open = nil
			switch tag := match[1]; tag {
			case TagAudioPath, TagSummary, TagKeyPoints, TagActionItems:
				b := &strings.Builder{}
				b.WriteString(strings.TrimSpace(match[2]))
				values[tag] = b
				if tag != TagAudioPath {
					open = b
				}
			}
			continue
		}

		if separatorLine.MatchString(line) {
			open = nil
			continue
		}

		if open != nil && line != "" {
			if open.Len() > 0 {
				open.WriteByte('\n')
			}
			open.WriteString(line)
		}
	}

	get := func(tag string) string {
		if b, ok := values[tag]; ok {
			if v := strings.TrimSpace(b.String()); v != "" {
				return v
			}
		}
		return NotAvailable
	}

	return Sections{
		AudioPath:   get(TagAudioPath),
		Summary:     get(TagSummary),
		KeyPoints:   get(TagKeyPoints),
		ActionItems: get(TagActionItems),
		Found:       len(values) > 0,
	}
}

// splitItems splits raw text into list items, dropping blank lines, lines
// shorter than 4 characters and lines containing '[' (log noise)
func splitItems(raw string) []string {
	items := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 4 || strings.Contains(line, "[") {
			continue
		}
		items = append(items, line)
	}
	return items
}

// ParseKeyPoints returns the key point list, falling back to a single placeholder
func ParseKeyPoints(raw string) []string {
	points := splitItems(raw)
	if len(points) == 0 {
		return []string{entities.DefaultKeyPoint}
	}
	return points
}

// ParseActionItems returns the action item list, empty when nothing usable was printed
func ParseActionItems(raw string) []entities.ActionItem {
	lines := splitItems(raw)
	items := make([]entities.ActionItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, entities.ActionItem{Text: line})
	}
	return items
}
