package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"nickandperla.net/snailfish/internal/number"
	"nickandperla.net/snailfish/internal/parser"
)

// Memory is an in-memory master list.
type Memory struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemory creates an empty master list.
func NewMemory() *Memory {
	return &Memory{}
}

// Put appends n, taking ownership of it.
func (m *Memory) Put(line int, n number.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, Record{Line: line, Number: n})
}

// Len returns the number of stored numbers.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Get returns a deep copy of the i-th number, or nil if i is out of range.
func (m *Memory) Get(i int) number.Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.records) {
		return nil
	}
	return number.Clone(m.records[i].Number)
}

// Line returns the source line of the i-th number, or 0 if unknown.
func (m *Memory) Line(i int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i < 0 || i >= len(m.records) {
		return 0
	}
	return m.records[i].Line
}

// Strings returns the canonical text of every stored number, in order.
func (m *Memory) Strings() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.records))
	for i, r := range m.records {
		out[i] = r.Number.String()
	}
	return out
}

// Load reads one number per line. Empty lines are skipped. Lines that fail
// to parse are left out; their errors are joined into the returned error,
// which unwraps to each *parser.ParseError. The store is always returned so
// callers may continue with the valid lines.
func Load(r io.Reader) (*Memory, error) {
	m := NewMemory()
	reader := bufio.NewReader(r)
	var errs []error
	line := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return m, fmt.Errorf("reading input: %w", err)
		}
		if err == io.EOF && text == "" {
			break
		}
		line++
		// Trailing whitespace (including CR) is dropped; leading whitespace is
		// left for the parser to reject with an accurate column.
		text = strings.TrimRight(text, " \t\r\n")
		if text != "" {
			n, perr := parser.ParseLine(text, line)
			if perr != nil {
				errs = append(errs, perr)
			} else {
				m.Put(line, n)
			}
		}
		if err == io.EOF {
			break
		}
	}
	return m, errors.Join(errs...)
}

// ParseErrors extracts every *parser.ParseError from an error returned by
// Load.
func ParseErrors(err error) []*parser.ParseError {
	if err == nil {
		return nil
	}
	var out []*parser.ParseError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, ParseErrors(e)...)
		}
		return out
	}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		out = append(out, pe)
	}
	return out
}
