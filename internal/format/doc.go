// Package format prints a template tree back to text.
//
// Назначение: write-back после миграции, команда print и тесты.
// Не делает: переформатирования пробелов; текст и отступы берутся из Text-узлов как есть.
// Зависимости: internal/ast.
package format
