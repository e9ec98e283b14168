// Package storage はアップロード画像を一時的に保存するステージング領域を提供します。
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// maxNameAttempts は名前衝突時に再試行する回数です。
const maxNameAttempts = 5

// Stager はディレクトリ内で一意なファイル名で画像を保存します。
type Stager struct {
	dir string
	now func() time.Time
}

// NewStager はディレクトリを作成してStagerを返します。
func NewStager(dir string) (*Stager, error) {
	if dir == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory %q: %w", dir, err)
	}
	return &Stager{dir: dir, now: time.Now}, nil
}

// Dir はステージングディレクトリを返します。
func (s *Stager) Dir() string {
	return s.dir
}

// Stage は r の内容を "<UnixNano>--<元のファイル名>" として保存し、そのパスを返します。
// 同名ファイルが既にある場合は新しいタイムスタンプで作り直します。
func (s *Stager) Stage(r io.Reader, originalName string) (string, error) {
	base := sanitizeName(originalName)

	var (
		f   *os.File
		err error
	)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := strconv.FormatInt(s.now().UnixNano(), 10) + "--" + base
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create staged file: %w", err)
		}
	}
	if err != nil {
		return "", fmt.Errorf("create staged file after %d attempts: %w", maxNameAttempts, err)
	}

	path := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		s.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}
	return path, nil
}

// Remove は保存済みファイルを削除します。失敗はログに残すだけです。
func (s *Stager) Remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("一時ファイルの削除に失敗", "path", path, "error", err)
	}
}

// sanitizeName はパス区切りを取り除き、ファイル名部分だけを残します。
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
