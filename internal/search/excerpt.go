package search

// excerptAround returns a window of content centered on the match at byte
// offset idx with the given length, padded by radius characters on each
// side. Ellipsis markers indicate truncation at either edge.
func excerptAround(content string, idx, matchLen, radius int) string {
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + radius
	if end > len(content) {
		end = len(content)
	}

	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out = out + "..."
	}
	return out
}

// headExcerpt returns the leading n characters of content, with an ellipsis
// marker when truncated.
func headExcerpt(content string, n int) string {
	if len(content) <= n {
		return content
	}
	return content[:n] + "..."
}
