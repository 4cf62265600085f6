package lexer

// skipTrivia пропускает пробелы, табы, '\r' и строчные комментарии.
// Комментарий '/' съедается вместе с завершающим '\n', поэтому
// отдельного Newline-токена после него нет.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r':
			lx.cursor.Bump()
		case '/':
			lx.skipLineComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipLineComment() {
	lx.cursor.Bump() // '/'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '\n' {
			return
		}
	}
}
