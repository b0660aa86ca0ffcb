package tokenizer

import (
	"strings"
	"unicode"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Line is one physical line of DBC text split into tokens.
type Line struct {
	// Number is the 1-based line number.
	Number int
	// Tokens holds the words and quoted spans of the line, quotes included.
	Tokens []string
}

// Tag returns the leading token of the line, or "" for a blank line.
func (l Line) Tag() string {
	if len(l.Tokens) == 0 {
		return ""
	}
	return l.Tokens[0]
}

// NewTokenizer creates a tokenizer for DBC text.
// Matchers are tried in order of specificity:
// 1. Newline (only \n terminates a line, \r is treated as whitespace)
// 2. Whitespace run
// 3. Quoted string
// 4. Word (any run of non-whitespace, including an unterminated quote)
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		SpaceMatcher(),
		QuotedMatcher(),
		WordMatcher(),
	)
}

// NewTokenizerWithStream creates a DBC tokenizer using a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// Lines splits input into tokenized lines.
// The result is aligned 1:1 with physical lines: index i holds line i+1,
// and a final line after the last terminator is always present.
func Lines(input string) []Line {
	tok := NewTokenizer()
	tok.Initialize(input)
	return collect(&tok)
}

// LinesFromStream is Lines for a pre-configured stream.
func LinesFromStream(stream tokenizer.Stream) []Line {
	tok := NewTokenizerWithStream(stream)
	return collect(&tok)
}

func collect(tok *tokenizer.Tokenizer) []Line {
	lines := make([]Line, 0, 64)
	current := Line{Number: 1}

	for {
		token, ok := tok.NextToken()
		if !ok {
			break
		}

		switch token.Kind() {
		case TokenNewline:
			lines = append(lines, current)
			current = Line{Number: current.Number + 1}
		case TokenQuoted, TokenWord:
			current.Tokens = append(current.Tokens, token.ValueString())
		}
	}

	return append(lines, current)
}

// SpaceMatcher matches a run of whitespace other than \n.
func SpaceMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok || r == '\n' || !isSpace(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenSpace, value)
	}
}

// QuotedMatcher matches a double-quoted span on a single line.
//
// Grammar:
//
//	Quoted = '"' { NonQuote | '\' AnyChar } '"' ;
//
// The matcher works on a clone of the stream and only commits on a closing quote,
// so an unterminated span is left for WordMatcher.
func QuotedMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '"' {
			return nil
		}

		probe := stream.Clone()
		probe.NextChar()
		value := []rune{'"'}

		for {
			r, ok := probe.NextChar()
			if !ok || r == '\n' {
				return nil
			}
			value = append(value, r)

			switch r {
			case '\\':
				escaped, ok := probe.NextChar()
				if !ok || escaped == '\n' {
					return nil
				}
				value = append(value, escaped)
			case '"':
				stream.Match(probe)
				return tokenizer.NewToken(TokenQuoted, value)
			}
		}
	}
}

// WordMatcher matches a run of non-whitespace characters.
func WordMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok || isSpace(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenWord, value)
	}
}

// Unquote strips the surrounding double quotes of a quoted token and
// resolves backslash escapes. Tokens that are not quoted are returned as is.
func Unquote(token string) string {
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return token
	}

	inner := token[1 : len(token)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}

	var sb strings.Builder
	sb.Grow(len(inner))
	escaped := false
	for _, r := range inner {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
