package advisor

import (
	"encoding/json"
	"errors"
)

// Error kinds surfaced to the front end before any computation proceeds.
var (
	// ErrMalformedInput marks an unusable spec table: missing columns,
	// non-numeric or negative values, duplicate or blank model names.
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptyDataset marks standardization requested on zero machines.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInsufficientData marks a decomposition request with fewer than
	// two machines or fewer than two spec dimensions.
	ErrInsufficientData = errors.New("insufficient data")
)

// Dimension names one numeric axis of the raw spec table.
type Dimension struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DefaultDimensions matches the pc_data.csv column set.
func DefaultDimensions() []Dimension {
	return []Dimension{
		{Key: "cpu_score", Label: "CPU"},
		{Key: "gpu_score", Label: "GPU"},
		{Key: "ram_gb", Label: "RAM"},
		{Key: "storage_gb", Label: "SSD"},
	}
}

// Machine is one candidate row of the spec table.
type Machine struct {
	Name  string
	Price float64
	Specs []float64
}

// Dataset is the in-memory spec table: a fixed dimension list plus one
// machine per row. Identity is the row's name; order is load order.
type Dataset struct {
	Dimensions []Dimension
	Machines   []Machine
}

// Clone returns a deep copy so callers can edit without aliasing.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Dimensions: append([]Dimension(nil), d.Dimensions...),
		Machines:   make([]Machine, len(d.Machines)),
	}
	for i, m := range d.Machines {
		out.Machines[i] = Machine{
			Name:  m.Name,
			Price: m.Price,
			Specs: append([]float64(nil), m.Specs...),
		}
	}
	return out
}

// Preset is a named preference profile shown as a button in the UI.
type Preset struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Preference  float64 `json:"preference"`
	Color       string  `json:"color"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	Preference float64  `json:"preference"`
	Budget     float64  `json:"budget"` // 0 means unlimited
	Preset     string   `json:"preset"`
	Presets    []Preset `json:"presets"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults and clamps
// out-of-range slider state.
func (c *Config) ApplyDefaults() {
	if c.Preference < -1 {
		c.Preference = -1
	}
	if c.Preference > 1 {
		c.Preference = 1
	}
	if c.Budget < 0 {
		c.Budget = 0
	}
	if len(c.Presets) == 0 {
		c.Presets = DefaultPresets()
	}
	if c.Preset == "" {
		c.Preset = presetCustom
	}
}

const presetCustom = "カスタム"

// DefaultPresets mirrors the persona profiles of the desktop app.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "プログラマー", Description: "CPU・RAM重視", Preference: 0.8, Color: "#1976D2"},
		{Name: "ゲーマー", Description: "GPU重視", Preference: -0.9, Color: "#D32F2F"},
		{Name: "動画編集者", Description: "RAM・ストレージ重視", Preference: 0.4, Color: "#7B1FA2"},
		{Name: "一般ユーザー", Description: "バランス型", Preference: 0, Color: "#388E3C"},
		{Name: "AI・データ分析", Description: "CPU・RAM・GPUバランス", Preference: 0.5, Color: "#FFA000"},
	}
}

// PresetByName returns the preset with the given name, if configured.
func (c Config) PresetByName(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
