package roster

import (
	"bufio"
	"io"
	"slices"
	"strings"
)

// Row is one record of a tabular extract, column name to raw value.
type Row map[string]string

// Source produces the rows of a tabular extract. Next returns io.EOF once the
// rows are exhausted.
type Source interface {
	Name() string
	Headers() []string
	Next() (Row, error)
}

const maxLineSize = 1024 * 1024

// DelimitedSource reads a delimited extract whose first line holds the
// headers. Fields are split on the delimiter literally, quotes carry no
// meaning, and rows where every value is blank are skipped.
type DelimitedSource struct {
	name      string
	delimiter string
	headers   []string
	scanner   *bufio.Scanner
}

// NewDelimitedSource consumes the header line of `r` immediately, an input
// without one yields a FormatError.
func NewDelimitedSource(name string, r io.Reader, delimiter string) (*DelimitedSource, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	s := &DelimitedSource{
		name:      name,
		delimiter: delimiter,
		scanner:   scanner,
	}
	if !scanner.Scan() {
		err := scanner.Err()
		if err != nil {
			return nil, err
		}
		return nil, &FormatError{Source: name, Reason: "missing headers"}
	}
	header := strings.TrimPrefix(strings.TrimRight(scanner.Text(), "\r"), "\ufeff")
	if strings.TrimSpace(header) == "" {
		return nil, &FormatError{Source: name, Reason: "missing headers"}
	}
	s.headers = strings.Split(header, delimiter)
	return s, nil
}

// NewTabSource reads tab-delimited data, the format of every portal extract.
func NewTabSource(name string, r io.Reader) (*DelimitedSource, error) {
	return NewDelimitedSource(name, r, "\t")
}

func (s *DelimitedSource) Name() string {
	return s.name
}

func (s *DelimitedSource) Headers() []string {
	return slices.Clone(s.headers)
}

func (s *DelimitedSource) Next() (Row, error) {
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, s.delimiter)

		row := make(Row, len(s.headers))
		blank := true
		for i, h := range s.headers {
			if i < len(values) {
				row[h] = values[i]
				if strings.TrimSpace(values[i]) != "" {
					blank = false
				}
				continue
			}
			row[h] = ""
		}
		if blank {
			continue
		}
		return row, nil
	}
	err := s.scanner.Err()
	if err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// MemorySource serves rows held in memory, mostly for tests and for merging
// rows fetched from elsewhere.
type MemorySource struct {
	name    string
	headers []string
	rows    []Row
	pos     int
}

func NewMemorySource(name string, headers []string, rows ...Row) *MemorySource {
	return &MemorySource{name: name, headers: headers, rows: rows}
}

func (s *MemorySource) Name() string {
	return s.name
}

func (s *MemorySource) Headers() []string {
	return slices.Clone(s.headers)
}

func (s *MemorySource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
