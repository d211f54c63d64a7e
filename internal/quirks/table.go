package quirks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideEntry is the YAML shape for one quirks-override-file entry. Zero
// values mean "inherit the built-in quirk (or Quirk{} defaults) for this
// field" — the override file is meant for small tweaks, not full
// redefinition.
type overrideEntry struct {
	Icon               string `yaml:"icon,omitempty"`
	SupportsRGB        *bool  `yaml:"supports_rgb,omitempty"`
	SupportsBrightness *bool  `yaml:"supports_brightness,omitempty"`
	ColorTempMin       uint32 `yaml:"color_temp_min,omitempty"`
	ColorTempMax       uint32 `yaml:"color_temp_max,omitempty"`
	AvoidPlatformAPI   bool   `yaml:"avoid_platform_api,omitempty"`
	BLEOnly            bool   `yaml:"ble_only,omitempty"`
	LANAPICapable      bool   `yaml:"lan_api_capable,omitempty"`
}

func (e overrideEntry) applyTo(base Quirk, sku string) Quirk {
	q := base
	q.SKU = sku
	if e.Icon != "" {
		q.Icon = e.Icon
	}
	if e.SupportsRGB != nil {
		q.SupportsRGB = *e.SupportsRGB
	}
	if e.SupportsBrightness != nil {
		q.SupportsBrightness = *e.SupportsBrightness
	}
	if e.ColorTempMin != 0 || e.ColorTempMax != 0 {
		q.ColorTempRange = &ColorTempRange{Min: e.ColorTempMin, Max: e.ColorTempMax}
	}
	if e.AvoidPlatformAPI {
		q.AvoidPlatformAPI = true
	}
	if e.BLEOnly {
		q.BLEOnly = true
	}
	if e.LANAPICapable {
		q.LANAPICapable = true
	}
	return q
}

// Table resolves a SKU to its known quirk, layering an optional override
// file on top of the built-in table.
type Table struct {
	quirks map[string]Quirk
}

// NewTable builds a Table from only the built-in quirks.
func NewTable() *Table {
	return &Table{quirks: loadBuiltins()}
}

// LoadTable builds a Table from the built-in quirks, then applies the
// override file at path if it exists. A missing file is not an error —
// the override file is optional.
func LoadTable(path string) (*Table, error) {
	t := NewTable()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quirks: reading %s: %w", path, err)
	}

	var overrides map[string]overrideEntry
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("quirks: parsing %s: %w", path, err)
	}

	for sku, entry := range overrides {
		base := t.quirks[sku]
		t.quirks[sku] = entry.applyTo(base, sku)
	}

	return t, nil
}

// Resolve returns the quirk for a SKU, and whether one was found.
func (t *Table) Resolve(sku string) (Quirk, bool) {
	q, ok := t.quirks[sku]
	return q, ok
}
