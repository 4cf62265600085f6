// Package driver runs the tokenize → parse → render pipeline for one file or
// for a whole source tree.
//
// Назначение: загрузка файлов, трассировка и тайминги фаз, параллельный
// рендер каталога и дисковый кеш готового HTML.
// Не делает: форматирования диагностик (internal/diagfmt) и записи
// результатов на диск (internal/buildpipeline).
package driver
