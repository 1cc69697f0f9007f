package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"bookshelf/internal/entity"
)

// DefaultDataFile is where the file backend keeps the catalog unless told
// otherwise.
const DefaultDataFile = "library_data.txt"

// File stores one record per line as "title,author".
//
// Fields holding a comma, a double quote or leading whitespace are written
// CSV-quoted so they survive a reload. Every other record is written exactly
// as "title,author", so files written by older versions load unchanged.
// Each line is read on its own: a line that is not valid CSV falls back to a
// plain split on ",", and a line that does not give exactly two fields is
// skipped. A field holding a line break does not survive a reload.
type File struct {
	path string
	crlf bool
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultDataFile
	}
	return &File{path: path, crlf: runtime.GOOS == "windows"}
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Load(ctx context.Context) ([]entity.Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.Record{}, nil
		}
		return []entity.Record{}, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	records := []entity.Record{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return []entity.Record{}, err
		}
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if rec, ok := parseLine(line); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return []entity.Record{}, fmt.Errorf("read %s: %w", f.path, err)
	}
	return records, nil
}

// parseLine reads one line as strict CSV, then as a legacy "title,author"
// split.
func parseLine(line string) (entity.Record, bool) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	if fields, err := r.Read(); err == nil && len(fields) == 2 {
		return entity.NewRecord(fields[0], fields[1]), true
	}

	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return entity.Record{}, false
	}
	return entity.NewRecord(parts[0], parts[1]), true
}

// Save truncates the file and writes every record. A failure part way
// through can leave a partially written file behind.
func (f *File) Save(ctx context.Context, records []entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}

	w := csv.NewWriter(file)
	w.UseCRLF = f.crlf
	for _, rec := range records {
		if err := w.Write([]string{rec.Title, rec.Author}); err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return file.Close()
}
