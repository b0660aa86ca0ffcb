// Package tokenizer provides DBC line tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for DBC text.
//
// Note: The tokenizer only separates lines and whitespace-delimited words.
// Record structure (BO_, SG_, VAL_ ...) is interpreted by the parser.
const (
	// Structural tokens
	TokenNewline = "Newline" // \n (line terminator)
	TokenSpace   = "Space"   // run of blanks, tabs or \r

	// Content tokens
	TokenQuoted = "Quoted" // "..." with backslash escapes
	TokenWord   = "Word"   // run of non-whitespace characters
)
