// Package naming turns DBC display names into machine-safe identifiers.
package naming

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// Label converts a message or signal name to snake_case.
//
//	Label("EngineSpeed")     // "engine_speed"
//	Label("ABS-Status 2")    // "abs_status_2"
//	Label("EEC1")            // "eec1"
//	Label("EEC1Speed")       // "eec1_speed"
//
// Separators (anything but letters and digits) always split words. Inside a
// word, digits stay attached to the text before them and a word break after
// a digit needs an upper-case letter.
func Label(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	labels := make([]string, 0, len(words))
	for _, word := range words {
		labels = append(labels, snakeWord(word))
	}
	return strings.Join(labels, "_")
}

// snakeWord splits one separator-free word with strcase and rejoins the
// breaks strcase makes around digits.
func snakeWord(word string) string {
	parts := strings.Split(strcase.ToSnake(word), "_")

	var b strings.Builder
	offset := 0 // position of part in word; strcase only inserts delimiters
	for _, part := range parts {
		if part == "" {
			continue
		}
		if offset > 0 && !joinsPrevious(word, offset) {
			b.WriteByte('_')
		}
		b.WriteString(part)
		offset += len(part)
	}
	return b.String()
}

func joinsPrevious(word string, offset int) bool {
	prev, next := word[offset-1], word[offset]
	if isDigit(next) {
		return true
	}
	return isDigit(prev) && !(next >= 'A' && next <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Compound joins a message label and a signal name into one identifier.
func Compound(messageLabel, signalName string) string {
	signal := Label(signalName)
	if messageLabel == "" {
		return signal
	}
	if signal == "" {
		return messageLabel
	}
	return messageLabel + "_" + signal
}
