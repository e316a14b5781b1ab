package posts

import (
	"fmt"
	"strings"
)

// DefaultWordsPerMinute is the reading-speed heuristic applied when no
// override is configured. The exact value is not a contract; treat it as
// tunable presentation data.
const DefaultWordsPerMinute = 200

// ReadingTime estimates how long a body takes to read and renders it as a
// human string ("N min read"). Estimates round up and never drop below one
// minute.
func ReadingTime(body []byte, wordsPerMinute int) string {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := len(strings.Fields(string(body)))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return fmt.Sprintf("%d min read", minutes)
}
