package fixer

import (
	"path/filepath"
	"strings"
)

// extractCodeBlock extracts code from an LLM response that may contain
// markdown fences. Returns the code inside ```lang or ``` blocks, or the
// trimmed original text if no fences are found.
func extractCodeBlock(text, lang string) string {
	patterns := []string{
		"```" + lang + "\n",
		"```" + lang + "\r\n",
		"```\n",
		"```\r\n",
	}

	for _, pattern := range patterns {
		if idx := strings.Index(text, pattern); idx != -1 {
			start := idx + len(pattern)
			end := strings.Index(text[start:], "```")
			if end != -1 {
				return strings.TrimSpace(text[start : start+end])
			}
		}
	}

	return strings.TrimSpace(text)
}

// langFromPath returns the fence language identifier for a file path.
// Unknown extensions fall back to the bare extension, or "txt".
func langFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "go":
		return "go"
	case "py":
		return "python"
	case "js", "jsx":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	case "rs":
		return "rust"
	case "c", "h":
		return "c"
	case "cpp", "cc", "hpp":
		return "cpp"
	case "java":
		return "java"
	case "rb":
		return "ruby"
	case "sh", "bash":
		return "bash"
	case "":
		return "txt"
	default:
		return ext
	}
}
