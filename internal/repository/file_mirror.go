package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fadilmartias/pitch-analyzer/internal/model"
)

// FileMirror stores each result as indented JSON in <dir>/<id>.json.
type FileMirror struct {
	dir string
}

func NewFileMirror(dir string) *FileMirror {
	return &FileMirror{dir: dir}
}

func (m *FileMirror) path(id string) string {
	return filepath.Join(m.dir, id+".json")
}

func (m *FileMirror) Save(_ context.Context, id string, result model.EvaluationResult) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path(id)); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

func (m *FileMirror) Load(_ context.Context, id string) (model.EvaluationResult, error) {
	data, err := os.ReadFile(m.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return model.EvaluationResult{}, model.WrapError(model.ErrNotFound, "load report "+id, nil)
	}
	if err != nil {
		return model.EvaluationResult{}, fmt.Errorf("read report: %w", err)
	}

	var result model.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.EvaluationResult{}, fmt.Errorf("decode report: %w", err)
	}
	return result, nil
}
