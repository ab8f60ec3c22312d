// Package fuzztests houses Go fuzz harnesses for the template pipeline
// (source -> parser -> migrate -> printer). They smoke test robustness and
// guard against panics, hangs and broken trees on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, парсер и миграцию.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/parser, internal/driver, internal/testkit.

package fuzztests
