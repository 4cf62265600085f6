// Package lexer turns Baml source into a flat token slice.
//
// The scanner is a single forward pass over the file bytes with no
// backtracking. Each call to Next dispatches on the current byte and consumes
// the whole run belonging to one token. Tokenize drains Next eagerly and
// stops at the first lexical error; there is no recovery and no partial
// output.
package lexer
