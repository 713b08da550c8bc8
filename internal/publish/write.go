package publish

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

//go:embed templates/code.css
var stylesheet []byte

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// writeOutput replaces path atomically so readers never see a partial
// document. With compressed set a .gz sibling is written as well.
func writeOutput(path string, data []byte, compressed bool) error {
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	if !compressed {
		return nil
	}
	gz, err := gzipBytes(data)
	if err != nil {
		return err
	}
	return writeAtomic(path+".gz", gz)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".publish-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Batch) publishFile(sourcePath string, opts Options) error {
	page, err := b.renderDocument(sourcePath, b.files[sourcePath], opts)
	if err != nil {
		return err
	}
	target := filepath.Join(opts.OutputDir, filepath.FromSlash(GeneratedName(sourcePath)))
	return writeOutput(target, []byte(page), opts.Gzip)
}

// writeStylesheet writes the shared stylesheet into dir unless one exists,
// so a hand-edited stylesheet survives republishing.
func writeStylesheet(dir string) error {
	path := filepath.Join(dir, StylesheetFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeAtomic(path, stylesheet)
}

func writeReport(dir string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, ReportFile), append(data, '\n'))
}
