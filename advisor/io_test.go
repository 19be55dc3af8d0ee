package advisor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadTableRoundTrip(t *testing.T) {
	ds := testDataset(t,
		[]any{"Aero One", 99800, 10, 20.5, 16, 512},
		[]any{"Titan X", 248000, 18, 32, 64, 2048},
	)
	path := filepath.Join(t.TempDir(), "pc_data.csv")
	require.NoError(t, SaveTable(path, ds))

	loaded, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Dimensions, loaded.Dimensions)
	assert.Equal(t, ds.Machines, loaded.Machines)
}

func TestParseTableJapaneseHeaders(t *testing.T) {
	records := [][]string{
		{"モデル名", "CPU", "GPU", "RAM", "SSD", "価格"},
		{"マシンA", "10", "20", "16", "512", "99800"},
	}
	ds, err := ParseTable(records, DefaultDimensions())
	require.NoError(t, err)
	require.Len(t, ds.Machines, 1)
	assert.Equal(t, "マシンA", ds.Machines[0].Name)
	assert.Equal(t, 99800.0, ds.Machines[0].Price)
	assert.Equal(t, []float64{10, 20, 16, 512}, ds.Machines[0].Specs)
}

func TestParseTableBOMAndColumnOrder(t *testing.T) {
	// Excel exports prefix a BOM; column order is free.
	records := [][]string{
		{"\ufeffprice", "model", "storage_gb", "ram_gb", "gpu_score", "cpu_score"},
		{"99800", "A", "512", "16", "20", "10"},
	}
	ds, err := ParseTable(records, DefaultDimensions())
	require.NoError(t, err)
	require.Len(t, ds.Machines, 1)
	assert.Equal(t, []float64{10, 20, 16, 512}, ds.Machines[0].Specs)
	assert.Equal(t, 99800.0, ds.Machines[0].Price)
}

func TestParseTableSkipsBlankRows(t *testing.T) {
	records := [][]string{
		{"model", "cpu_score", "gpu_score", "ram_gb", "storage_gb", "price"},
		{"A", "10", "20", "16", "512", "99800"},
		{"", "", "", "", "", ""},
		{"B", "14", "10", "32", "1024", "120000"},
	}
	ds, err := ParseTable(records, DefaultDimensions())
	require.NoError(t, err)
	assert.Len(t, ds.Machines, 2)
}

func TestParseTableMalformed(t *testing.T) {
	header := []string{"model", "cpu_score", "gpu_score", "ram_gb", "storage_gb", "price"}
	cases := map[string][][]string{
		"empty": {},
		"missing name column": {
			{"cpu_score", "gpu_score", "ram_gb", "storage_gb", "price"},
		},
		"missing spec column": {
			{"model", "cpu_score", "gpu_score", "ram_gb", "price"},
		},
		"non-numeric": {
			header,
			{"A", "fast", "20", "16", "512", "99800"},
		},
		"negative value": {
			header,
			{"A", "-1", "20", "16", "512", "99800"},
		},
		"blank name": {
			header,
			{" ", "10", "20", "16", "512", "99800"},
		},
		"short row": {
			header,
			{"A", "10", "20"},
		},
	}
	for name, records := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTable(records, DefaultDimensions())
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestParseTableDuplicateNamesAfterNormalization(t *testing.T) {
	// Full-width spelling collates to the same name under NFKC.
	records := [][]string{
		{"model", "cpu_score", "gpu_score", "ram_gb", "storage_gb", "price"},
		{"PC-A", "10", "20", "16", "512", "99800"},
		{"ＰＣ－Ａ", "14", "10", "32", "1024", "120000"},
	}
	_, err := ParseTable(records, DefaultDimensions())
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "PC-A 2024", NormalizeName("  ＰＣ－Ａ　 2024 "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestLastUsedPath(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "last_csv_path.txt")

	_, ok := LastUsedPath(record)
	assert.False(t, ok)

	csvPath := filepath.Join(dir, "pc_data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("model\n"), 0o644))
	require.NoError(t, RememberPath(record, csvPath))

	got, ok := LastUsedPath(record)
	require.True(t, ok)
	assert.Equal(t, csvPath, got)

	// A remembered path that no longer exists is ignored.
	require.NoError(t, os.Remove(csvPath))
	_, ok = LastUsedPath(record)
	assert.False(t, ok)
}
