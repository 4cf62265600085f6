// Package render serializes a parsed Baml document to HTML text.
//
// Назначение: обход AST в прямом порядке и печать тегов с отступами.
// Не делает: экранирования атрибутов и текста (выражения непрозрачны и
// выводятся как есть), валидации имён тегов, IO помимо переданного io.Writer.
// Зависимости: internal/ast; compact-режим строится поверх gomponents.
package render
