package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for files whose extension is not supported.
var ErrUnknownFormat = errors.New("unknown source format")

// ReadFile reads the records of path on fs. The format is chosen by extension:
// .txt (or none), .csv, .yaml or .yml.
func ReadFile(fs afero.Fs, path string) ([]Record, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	var records []Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".txt":
		records, err = ReadText(f)
	case ".csv":
		records, err = ReadCSV(f)
	case ".yaml", ".yml":
		records, err = ReadYAML(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadText reads whitespace separated records, one per line.
// Blank lines and lines starting with # are skipped.
func ReadText(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) > 4 {
			return nil, fmt.Errorf("line %d: expected at most 4 fields, got %d", line, len(fields))
		}
		fields = append(fields, "", "", "")
		records = append(records, Record{
			Loc:             fields[0],
			LastModified:    fields[1],
			ChangeFrequency: fields[2],
			Priority:        fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadCSV reads records from a CSV document whose header names its columns.
// A loc column is required; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["loc"]; !ok {
		return nil, errors.New("csv header has no loc column")
	}

	get := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, Record{
			Loc:             get(row, "loc"),
			LastModified:    get(row, "lastmod"),
			ChangeFrequency: get(row, "changefreq"),
			Priority:        get(row, "priority"),
		})
	}
	return records, nil
}

// ReadYAML reads a YAML list of records.
func ReadYAML(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
