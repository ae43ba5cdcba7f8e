package instruments

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// monthCodes are the futures delivery-month letters (F=Jan … Z=Dec)
const monthCodes = "FGHJKMNQUVXZ"

// defaultMultipliers are point values for common US futures roots
var defaultMultipliers = map[string]float64{
	// equity index
	"ES":  50,
	"MES": 5,
	"NQ":  20,
	"MNQ": 2,
	"YM":  5,
	"MYM": 0.5,
	"RTY": 50,
	"M2K": 5,
	// energy / metals
	"CL":  1000,
	"MCL": 100,
	"NG":  10000,
	"GC":  100,
	"MGC": 10,
	"SI":  5000,
	"HG":  25000,
	// rates
	"ZB": 1000,
	"ZN": 1000,
	"ZF": 1000,
	"ZT": 2000,
	// fx
	"6E": 125000,
	"6J": 12500000,
	"6B": 62500,
}

// Table resolves contract multipliers by exact symbol, then by futures root.
// It satisfies contracts.MultiplierLookup and is read-only after construction.
type Table struct {
	multipliers map[string]float64
}

// New builds a table from symbol → multiplier pairs
func New(multipliers map[string]float64) (*Table, error) {
	t := &Table{multipliers: make(map[string]float64, len(multipliers))}
	for sym, m := range multipliers {
		if err := t.add(sym, m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Default returns the built-in futures table
func Default() *Table {
	t, _ := New(defaultMultipliers)
	return t
}

func (t *Table) add(symbol string, m float64) error {
	key := normalize(symbol)
	if key == "" {
		return fmt.Errorf("instruments: empty symbol")
	}
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return fmt.Errorf("instruments: multiplier for %s must be positive, got %v", symbol, m)
	}
	t.multipliers[key] = m
	return nil
}

// Merge returns a new table with overrides applied on top of t
func (t *Table) Merge(overrides map[string]float64) (*Table, error) {
	merged := make(map[string]float64, len(t.multipliers)+len(overrides))
	for k, v := range t.multipliers {
		merged[k] = v
	}
	out, err := New(merged)
	if err != nil {
		return nil, err
	}
	for sym, m := range overrides {
		if err := out.add(sym, m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Multiplier returns the multiplier for symbol, 0 when unknown
func (t *Table) Multiplier(symbol string) float64 {
	if t == nil {
		return 0
	}
	key := normalize(symbol)
	if m, ok := t.multipliers[key]; ok {
		return m
	}
	if root, ok := Root(key); ok {
		return t.multipliers[root]
	}
	return 0
}

// Symbols lists configured symbols, sorted
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.multipliers))
	for k := range t.multipliers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Root strips a futures month code and year suffix: ESZ4 → ES, MESH25 → MES, /6EM2025 → 6E.
// ok is false when symbol does not look like a dated contract.
func Root(symbol string) (string, bool) {
	s := normalize(symbol)

	// trailing year: 1, 2 or 4 digits
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	digits := len(s) - end
	if digits != 1 && digits != 2 && digits != 4 {
		return "", false
	}

	// month letter preceded by a non-empty root
	if end < 2 || !strings.ContainsRune(monthCodes, rune(s[end-1])) {
		return "", false
	}
	return s[:end-1], true
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(symbol), "/"))
}

// =============================================================================
// File loading
// =============================================================================

// File is the YAML layout of an instruments file
type File struct {
	IncludeDefaults bool               `yaml:"include_defaults"`
	Multipliers     map[string]float64 `yaml:"multipliers"`
}

// Load decodes an instruments YAML document.
// Unknown fields are rejected.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("instruments: decode: %w", err)
	}

	return f.Table()
}

// LoadFile reads an instruments YAML file
func LoadFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}

// Table builds the lookup described by the file
func (f File) Table() (*Table, error) {
	if f.IncludeDefaults {
		return Default().Merge(f.Multipliers)
	}
	return New(f.Multipliers)
}
