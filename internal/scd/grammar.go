package scd

import "strings"

// DefaultBoundaryKey is the field that starts a new record.
const DefaultBoundaryKey = "DOCID"

const utf8BOM = "\uFEFF"

// ValidKey reports whether key can be written as a field line.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '.' || c == '-'):
		default:
			return false
		}
	}
	return true
}

// parseFieldLine splits a "<Key>value" line. ok is false for continuation lines.
func parseFieldLine(line string) (key, value string, ok bool) {
	if len(line) < 3 || line[0] != '<' {
		return "", "", false
	}
	end := strings.IndexByte(line, '>')
	if end < 2 {
		return "", "", false
	}
	key = line[1:end]
	if !ValidKey(key) {
		return "", "", false
	}
	return key, line[end+1:], true
}

// needsEscape reports whether a continuation line must be prefixed with a
// backslash to survive a re-read.
func needsEscape(line string) bool {
	if strings.HasPrefix(line, `\`) {
		return true
	}
	_, _, ok := parseFieldLine(line)
	return ok
}

// unescape reverses needsEscape. A leading backslash is removed only when the
// rest of the line would itself have been escaped; any other backslash is data.
func unescape(line string) string {
	if rest, ok := strings.CutPrefix(line, `\`); ok && needsEscape(rest) {
		return rest
	}
	return line
}
