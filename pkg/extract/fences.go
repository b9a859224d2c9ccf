package extract

import "strings"

const fence = "```"

// StripFences returns the body of the first Markdown code fence in s, or s
// trimmed when it has none. An unterminated fence runs to the end of s.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	start := strings.Index(trimmed, fence)
	if start < 0 {
		return trimmed
	}
	rest := trimmed[start+len(fence):]
	// Drop the info string ("json") up to the end of the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		if info := strings.TrimSpace(rest[:nl]); !strings.ContainsAny(info, "{[") {
			rest = rest[nl+1:]
		}
	} else {
		rest = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	if end := strings.Index(rest, fence); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
