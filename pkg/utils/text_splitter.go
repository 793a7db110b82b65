package utils

import "strings"

// SplitText splits text into overlapping windows of at most chunkSize words.
// Successive windows start chunkSize-overlap words apart; the step is clamped
// to 1 so the loop still advances when overlap >= chunkSize.
func SplitText(text string, chunkSize int, overlap int) []string {
	words := strings.Fields(text)
	if len(words) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}
