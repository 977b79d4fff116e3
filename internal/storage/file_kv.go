package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"vehlog/internal/providers"
	"vehlog/internal/storage/interfaces"
)

const (
	fileExt = ".zst"
	tmpExt  = ".tmp"
)

// FileKV keeps one zstd-compressed file per key inside a directory.
// Writes go to a temp file first and are renamed into place.
type FileKV struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileKV(dir string, compressor interfaces.CompressorInterface, logger providers.Logger) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{dir: dir, compressor: compressor, logger: logger}, nil
}

func (f *FileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+fileExt), nil
}

func (f *FileKV) Get(key string) (string, bool, error) {
	fileName, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return "", false, fmt.Errorf("decompress %s: %w", key, err)
	}
	return string(decompressed), true, nil
}

func (f *FileKV) Set(key, value string) error {
	fileName, err := f.path(key)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress([]byte(value))
	if err != nil {
		return err
	}

	tmpFile := fileName + tmpExt
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Maintain removes temp files left behind by interrupted writes.
func (f *FileKV) Maintain() error {
	matches, err := filepath.Glob(filepath.Join(f.dir, "*"+fileExt+tmpExt))
	if err != nil {
		return err
	}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || time.Since(info.ModTime()) < time.Minute {
			continue
		}
		if err := os.Remove(m); err != nil {
			return err
		}
		f.logger.Infof(providers.TypeStore, "Removed stale temp file %s", m)
	}
	return nil
}

func (f *FileKV) Close() error {
	f.compressor.Close()
	return nil
}
