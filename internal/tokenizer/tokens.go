// Package tokenizer provides CSV tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for delimited text.
//
// The tokenizer emits character-level tokens. The parser decides whether a
// quote opens, closes or is literal, and whether an escape applies.
const (
	// Structural tokens
	TokenDelimiter = "Delimiter" // configured field separator
	TokenQuote     = "Quote"     // configured quote byte (absent when quoting is disabled)
	TokenEscape    = "Escape"    // configured prefix escape byte (absent in doubled-quote mode)
	TokenNewline   = "Newline"   // \r\n, \n or \r

	// Field content token
	TokenField = "Field" // run of characters with no structural meaning

	// Special token
	TokenEOF = "EOF" // End of file
)
