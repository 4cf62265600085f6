// Package fuzztests houses Go fuzz harnesses that exercise the Baml
// pipeline (source -> lexer -> parser -> render). Its goal is to smoke test
// robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и рендерер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/render, internal/testkit.

package fuzztests
