package notify

// MaxMessageLen leaves headroom under Telegram's 4096-character message cap
// for the markup around failure reports.
const MaxMessageLen = 1900

// Chunk splits s into fixed-size pieces. Every piece is emitted; a report
// longer than one message arrives as several.
func Chunk(s string, size int) []string {
	if size <= 0 || s == "" {
		return nil
	}

	r := []rune(s)
	chunks := make([]string, 0, (len(r)+size-1)/size)
	for start := 0; start < len(r); start += size {
		end := start + size
		if end > len(r) {
			end = len(r)
		}
		chunks = append(chunks, string(r[start:end]))
	}
	return chunks
}
