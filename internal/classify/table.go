// Package classify loads the cClass→description lookup table from an Excel
// workbook. The table is optional: a missing or unreadable file degrades to
// an empty map so summaries still run, just without descriptions.
package classify

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Entry is one code/description pair, used when listing the table.
type Entry struct {
	CClass      string `json:"cclass"`
	Description string `json:"description"`
}

// Header names accepted (case-insensitively) for the two columns.
var (
	codeHeaders = []string{"cclass", "codigo", "código", "classificacao", "classificação"}
	descHeaders = []string{"descricao", "descrição", "desc", "item", "nome"}
)

// Table is a lazily loaded, read-only cClass description lookup.
type Table struct {
	path string

	once    sync.Once
	byCode  map[string]string
	entries []Entry
}

// NewTable creates a Table backed by the workbook at path. Nothing is read
// until the first lookup.
func NewTable(path string) *Table {
	return &Table{path: path}
}

// Description returns the description for code, or "" when unknown.
func (t *Table) Description(code string) string {
	t.load()
	return t.byCode[strings.TrimSpace(code)]
}

// Entries returns the loaded table sorted by code.
func (t *Table) Entries() []Entry {
	t.load()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of loaded codes.
func (t *Table) Len() int {
	t.load()
	return len(t.byCode)
}

func (t *Table) load() {
	t.once.Do(func() {
		t.byCode = map[string]string{}
		if t.path == "" {
			return
		}
		if err := t.read(); err != nil {
			log.Printf("classify: table %s unavailable, using empty map: %v", t.path, err)
			t.byCode = map[string]string{}
			t.entries = nil
		}
	})
}

func (t *Table) read() error {
	f, err := excelize.OpenFile(t.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	codeCol := findColumn(rows[0], codeHeaders)
	descCol := findColumn(rows[0], descHeaders)
	if codeCol < 0 {
		codeCol = 0
	}
	if descCol < 0 {
		if len(rows[0]) > 1 {
			descCol = 1
		} else {
			descCol = -1
		}
	}

	for _, row := range rows[1:] {
		if codeCol >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeCol])
		if code == "" {
			continue
		}
		desc := ""
		if descCol >= 0 && descCol < len(row) {
			desc = strings.TrimSpace(row[descCol])
		}
		// First occurrence of a code wins.
		if _, dup := t.byCode[code]; dup {
			continue
		}
		t.byCode[code] = desc
		t.entries = append(t.entries, Entry{CClass: code, Description: desc})
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].CClass < t.entries[j].CClass })
	return nil
}

func findColumn(header []string, names []string) int {
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if col == name {
				return i
			}
		}
	}
	return -1
}
