package errtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

// sourceNameRe matches source file names like `420_FLOOD.tsv`.
var sourceNameRe = regexp.MustCompile(`^(\d+)_([A-Z_]+)\.tsv$`)

// LoadFS reads every `CODE_NAME.tsv` file at the root of fsys, in file-name
// order, so compiling the result is deterministic.
func LoadFS(fsys fs.FS) ([]Source, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("errtable: read source dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if sourceNameRe.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("errtable: open %s: %w", name, err)
		}
		src, err := ParseSource(name, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ParseSource reads one tab-separated source. The base of name must carry
// the `CODE_NAME.tsv` shape; the first row is a header and blank rows are
// skipped.
func ParseSource(name string, r io.Reader) (Source, error) {
	base := path.Base(name)
	m := sourceNameRe.FindStringSubmatch(base)
	if m == nil {
		return Source{}, fmt.Errorf("errtable: source name %q: want CODE_NAME.tsv", base)
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return Source{}, fmt.Errorf("errtable: source name %q: %w", base, err)
	}

	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	src := Source{Code: code, Name: m[2]}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Source{}, fmt.Errorf("errtable: parse %s: %w", base, err)
		}
		row++
		if row == 1 {
			// Header.
			continue
		}
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		if len(record) != 2 {
			return Source{}, fmt.Errorf("errtable: parse %s: row %d has %d columns, want 2", base, row, len(record))
		}
		src.Entries = append(src.Entries, Entry{ID: record[0], Message: record[1]})
	}
	return src, nil
}
