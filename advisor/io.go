package advisor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultLastPathFile remembers the most recently opened spec table.
const DefaultLastPathFile = "last_csv_path.txt"

var nameColumnCandidates = []string{"model", "name", "モデル名", "機種名"}
var priceColumnCandidates = []string{"price", "価格", "価格 (円)"}

// NormalizeName performs NFKC normalization and whitespace cleanup on a
// machine name so full-width and half-width spellings collate together.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// LoadTable reads a spec table CSV using the default dimension set.
func LoadTable(path string) (*Dataset, error) {
	return LoadTableDims(path, DefaultDimensions())
}

// LoadTableDims reads a spec table CSV with a caller supplied dimension set.
func LoadTableDims(path string, dims []Dimension) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ds, err := ParseTable(records, dims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// ParseTable builds a Dataset from raw CSV records. The first record must be
// a header naming the model, price and every dimension column.
func ParseTable(records [][]string, dims []Dimension) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: 空のCSVです", ErrMalformedInput)
	}
	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = cleanCell(cell)
	}
	nameCol := findColumn(header, nameColumnCandidates)
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: モデル名列が見つかりません", ErrMalformedInput)
	}
	priceCol := findColumn(header, priceColumnCandidates)
	if priceCol < 0 {
		return nil, fmt.Errorf("%w: 価格列が見つかりません", ErrMalformedInput)
	}
	specCols := make([]int, len(dims))
	for i, dim := range dims {
		col := findColumn(header, []string{dim.Key, dim.Label})
		if col < 0 {
			return nil, fmt.Errorf("%w: 列 %q が見つかりません", ErrMalformedInput, dim.Key)
		}
		specCols[i] = col
	}

	ds := &Dataset{Dimensions: append([]Dimension(nil), dims...)}
	seen := make(map[string]struct{})
	for r, row := range records[1:] {
		line := r + 2
		if isBlankRow(row) {
			continue
		}
		if nameCol >= len(row) {
			return nil, fmt.Errorf("%w: 行%d: モデル名がありません", ErrMalformedInput, line)
		}
		name := NormalizeName(row[nameCol])
		if name == "" {
			return nil, fmt.Errorf("%w: 行%d: モデル名が空です", ErrMalformedInput, line)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: 行%d: モデル名 %q が重複しています", ErrMalformedInput, line, name)
		}
		seen[name] = struct{}{}
		price, err := parseCell(row, priceCol, line, header[priceCol])
		if err != nil {
			return nil, err
		}
		specs := make([]float64, len(dims))
		for i, col := range specCols {
			v, err := parseCell(row, col, line, header[col])
			if err != nil {
				return nil, err
			}
			specs[i] = v
		}
		ds.Machines = append(ds.Machines, Machine{Name: name, Price: price, Specs: specs})
	}
	return ds, nil
}

func parseCell(row []string, col, line int, colName string) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("%w: 行%d: 列 %q の値がありません", ErrMalformedInput, line, colName)
	}
	raw := cleanCell(row[col])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: 行%d: 列 %q の数値が不正です (%q)", ErrMalformedInput, line, colName, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: 行%d: 列 %q は正の値で入力してください", ErrMalformedInput, line, colName)
	}
	return v, nil
}

// SaveTable writes the dataset back to a CSV file. A save followed by a load
// reproduces the same dataset exactly.
func SaveTable(path string, ds *Dataset) error {
	tmp := path + ".tmp"
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}
	}
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	writer := csv.NewWriter(f)
	header := make([]string, 0, len(ds.Dimensions)+2)
	header = append(header, "model")
	for _, dim := range ds.Dimensions {
		header = append(header, dim.Key)
	}
	header = append(header, "price")
	if err := writer.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	for _, m := range ds.Machines {
		row := make([]string, 0, len(header))
		row = append(row, m.Name)
		for _, v := range m.Specs {
			row = append(row, formatFloat(v))
		}
		row = append(row, formatFloat(m.Price))
		if err := writer.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", tmp, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// LastUsedPath reads the remembered spec table path. The second return is
// false when no usable record exists.
func LastUsedPath(recordFile string) (string, bool) {
	if recordFile == "" {
		recordFile = DefaultLastPathFile
	}
	data, err := os.ReadFile(recordFile)
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(string(data))
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// RememberPath records the most recently opened spec table path.
func RememberPath(recordFile, path string) error {
	if recordFile == "" {
		recordFile = DefaultLastPathFile
	}
	if err := os.WriteFile(recordFile, []byte(path), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", recordFile, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}
