package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexMultilineString    Code = 1003
	LexBadEscape          Code = 1004
	LexExpansionNoBrace   Code = 1005
	LexUnterminatedExpand Code = 1006

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpectExpr      Code = 2002
	SynExpectAssign    Code = 2003
	SynExpectIdent     Code = 2004
	SynUnclosedBrace   Code = 2005
	SynInvalidBody     Code = 2006

	// Ввод-вывод и проект
	IOLoadFileError   Code = 4001
	IOWriteError      Code = 4002
	PrjManifestError  Code = 5001
	PrjFixtureMissing Code = 5002
	PrjFixtureDiff    Code = 5003

	// Нарушение внутренних инвариантов: дефект компилятора, не пользователя
	InternalInvariant Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnknownChar:        "Invalid character",
		LexUnterminatedString: "Unterminated string literal",
		LexMultilineString:    "Multi-line string not allowed",
		LexBadEscape:          "Unsupported escape sequence",
		LexExpansionNoBrace:   "Missing '{' after '$'",
		LexUnterminatedExpand: "Unterminated expansion",
		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Unexpected token",
		SynExpectExpr:         "Expression expected",
		SynExpectAssign:       "'=' expected",
		SynExpectIdent:        "Identifier expected",
		SynUnclosedBrace:      "Unclosed block",
		SynInvalidBody:        "Invalid tag body",
		IOLoadFileError:       "I/O load file error",
		IOWriteError:          "I/O write error",
		PrjManifestError:      "Invalid project manifest",
		PrjFixtureMissing:     "Missing fixture",
		PrjFixtureDiff:        "Fixture mismatch",
		InternalInvariant:     "Internal compiler error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsLexical reports whether the code belongs to the tokenizer.
func (c Code) IsLexical() bool { return c >= 1000 && c < 2000 }

// IsSyntax reports whether the code belongs to the parser.
func (c Code) IsSyntax() bool { return c >= 2000 && c < 3000 }

// IsIO reports whether the code describes a file system failure. Such
// diagnostics name a file but point at no source text.
func (c Code) IsIO() bool { return c >= 4000 && c < 5000 }
