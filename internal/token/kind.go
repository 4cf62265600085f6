package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// DString represents a double-quoted string ("...").
	DString
	// SString represents a single-quoted string ('...').
	SString
	// Expansion represents an embedded expression ${...}.
	Expansion

	// HTML represents a raw html line starting with '<'.
	HTML
	// Comment represents a '\' line.
	Comment
	// Param represents a ':' line.
	Param
	// Code represents a '!' line.
	Code
	// CodeNested represents a '%' line.
	CodeNested

	// Newline represents the statement separator '\n'.
	Newline
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Dot represents the dot token.
	Dot // .
	// Hash represents the hash token.
	Hash // #
	// Assign represents the assign token.
	Assign // =
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	DString:    "DString",
	SString:    "SString",
	Expansion:  "Expansion",
	HTML:       "HTML",
	Comment:    "Comment",
	Param:      "Param",
	Code:       "Code",
	CodeNested: "CodeNested",
	Newline:    "Newline",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	Semicolon:  "Semicolon",
	Dot:        "Dot",
	Hash:       "Hash",
	Assign:     "Assign",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
