package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalBackend пишет документы в локальный каталог данных.
type LocalBackend struct {
	dir string
}

// NewLocalBackend создаёт бэкенд поверх каталога данных.
func NewLocalBackend(dir string) *LocalBackend {
	return &LocalBackend{dir: dir}
}

// PutFile атомарно записывает документ: сначала во временный файл,
// затем rename, чтобы читатели не видели полузаписанный JSON.
func (b *LocalBackend) PutFile(ctx context.Context, filename string, content []byte) error {
	if err := CheckFilename(filename); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("persist: не удалось создать каталог %s: %w", b.dir, err)
	}

	target := filepath.Join(b.dir, filename)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("persist: ошибка записи файла: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("persist: не удалось переименовать файл: %w", err)
	}
	return nil
}
