// Package token defines lexical token kinds for the Baml compiler.
// Invariants:
//   - Token.Text is the payload, not the raw lexeme: strings are unquoted and
//     unescaped, expansions hold the text between "${" and "}", line tokens
//     hold the rest of the line after their sigil (HTML keeps its '<').
//   - Punctuation and Newline tokens carry no payload.
//   - Token.Span covers the raw lexeme in the source file.
//   - A token sequence produced by the lexer always ends with exactly one EOF.
package token
