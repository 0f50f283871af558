// Package symbols provides the read-only ticker directory behind autocomplete.
package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"DrawdownLens/internal/model"
)

// DefaultLimit caps search results when the caller passes no limit.
const DefaultLimit = 10

// Directory is a CSV-backed list of tradable symbols. It is safe for
// concurrent use; Reload swaps the contents atomically.
type Directory struct {
	path string

	mu      sync.RWMutex
	entries []model.Symbol
}

// Load reads the CSV at path. The file needs a header row with at least a
// "symbol" column; "name" and "exchange" are optional.
func Load(path string) (*Directory, error) {
	d := &Directory{path: path}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads the backing file. On error the previous contents are kept.
func (d *Directory) Reload() error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("open symbol directory: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", d.path, err)
	}

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()
	return nil
}

// Len returns the number of symbols loaded.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Parse decodes a symbol CSV. Rows without a symbol are skipped and
// duplicate symbols keep their first row.
func Parse(r io.Reader) ([]model.Symbol, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	symCol, ok := col["symbol"]
	if !ok {
		return nil, errors.New(`missing "symbol" column`)
	}
	field := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	seen := map[string]bool{}
	var out []model.Symbol
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if symCol >= len(rec) {
			continue
		}
		ticker := strings.ToUpper(strings.TrimSpace(rec[symCol]))
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		out = append(out, model.Symbol{
			Ticker:   ticker,
			Name:     field(rec, "name"),
			Exchange: field(rec, "exchange"),
		})
	}
	return out, nil
}

// Search returns symbols whose ticker or name contains q, case-insensitively.
// Exact ticker matches rank first, then ticker prefixes, then the rest in
// file order. A nil Directory or blank query yields an empty slice.
func (d *Directory) Search(q string, limit int) []model.Symbol {
	out := []model.Symbol{}
	q = strings.ToUpper(strings.TrimSpace(q))
	if d == nil || q == "" {
		return out
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	d.mu.RLock()
	type hit struct {
		rank int
		sym  model.Symbol
	}
	var hits []hit
	for _, s := range d.entries {
		switch {
		case s.Ticker == q:
			hits = append(hits, hit{0, s})
		case strings.HasPrefix(s.Ticker, q):
			hits = append(hits, hit{1, s})
		case strings.Contains(s.Ticker, q), strings.Contains(strings.ToUpper(s.Name), q):
			hits = append(hits, hit{2, s})
		}
	}
	d.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.sym)
	}
	return out
}
