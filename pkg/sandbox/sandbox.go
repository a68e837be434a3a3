// Package sandbox реализует общую политику песочницы для файловых инструментов.
//
// Все операции с файловой системой обязаны разрешать пути только внутри
// одного корневого каталога. Проверка делается по точному вхождению
// (корень или корень + разделитель + остаток), а не по наивному префиксу
// строки: /app/sandbox2 не считается частью /app/sandbox.
package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dir — песочница с одним корневым каталогом.
//
// Создаётся один раз при старте из конфигурации и передаётся каждому
// файловому инструменту. Immutable.
type Dir struct {
	root string // Абсолютный нормализованный корень
}

// New создает песочницу для указанного корня.
//
// Корень приводится к абсолютной нормализованной форме.
func New(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("sandbox root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox root %q: %w", root, err)
	}
	return &Dir{root: filepath.Clean(abs)}, nil
}

// Root возвращает абсолютный корень песочницы.
func (d *Dir) Root() string {
	return d.root
}

// Resolve приводит пользовательский путь к абсолютной нормализованной
// форме и проверяет что он лежит внутри песочницы.
//
// Нормализация схлопывает ".." сегменты, поэтому обходы вида
// root/../../etc/passwd отсекаются. Возвращает абсолютный путь или ошибку.
func (d *Dir) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if !d.Contains(abs) {
		return "", fmt.Errorf("access denied: path is outside sandbox %s", d.root)
	}
	return abs, nil
}

// Contains проверяет вхождение уже абсолютного пути в песочницу.
//
// Точное вхождение: сам корень, либо корень + разделитель + остаток.
func (d *Dir) Contains(abs string) bool {
	return abs == d.root || strings.HasPrefix(abs, d.root+string(filepath.Separator))
}

// IsRoot проверяет что абсолютный путь и есть корень песочницы.
//
// Используется операциями delete/rename чтобы запретить трогать сам корень.
func (d *Dir) IsRoot(abs string) bool {
	return abs == d.root
}

// Rel возвращает путь относительно корня песочницы для сообщений
// пользователю. Если относительный путь вычислить не удалось,
// возвращает исходный абсолютный.
func (d *Dir) Rel(abs string) string {
	rel, err := filepath.Rel(d.root, abs)
	if err != nil {
		return abs
	}
	return rel
}
