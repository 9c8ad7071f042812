package forms

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxFilenameLength bounds display names taken from untrusted sources.
const MaxFilenameLength = 128

// CleanFilename turns a client supplied file name into a display name that is
// safe to log, render and forward to the backend. Directory components are
// dropped and the extension is kept when the name is truncated.
func CleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}

	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) {
			continue
		}
		if isAllowedNameRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if runes := []rune(cleaned); len(runes) > MaxFilenameLength {
		ext := []rune(filepath.Ext(cleaned))
		if len(ext) >= MaxFilenameLength {
			ext = nil
		}
		cleaned = string(runes[:MaxFilenameLength-len(ext)]) + string(ext)
	}
	if cleaned == "" || strings.Trim(cleaned, ".") == "" {
		return "upload"
	}
	return cleaned
}

func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')':
		return true
	default:
		return false
	}
}
