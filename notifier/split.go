package notifier

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkLimit is the per-message character budget, kept below the
// webhook's 2000 character cap.
const DefaultChunkLimit = 1500

// Split breaks text into chunks of at most limit characters, cutting only
// at line breaks. Lines are accumulated greedily; a line that would push the
// current chunk past the limit starts a new chunk. A single line longer than
// limit becomes its own oversized chunk. The last chunk is always returned,
// so the result is never empty and strings.Join(chunks, "\n") == text.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}

	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, 1)
	current := lines[0]
	size := utf8.RuneCountInString(current)

	for _, line := range lines[1:] {
		n := utf8.RuneCountInString(line)
		if size+1+n > limit {
			chunks = append(chunks, current)
			current, size = line, n
			continue
		}
		current += "\n" + line
		size += 1 + n
	}
	return append(chunks, current)
}
