package hass

import (
	"encoding/json"
	"sort"

	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
)

// WorkModeValue is one sub-dial choice within a WorkMode — e.g. preset 3
// of a "Manual" mode, or one step of a contiguous slider range. Name is
// empty for an unnamed, purely numeric sub-value.
type WorkModeValue struct {
	Value json.RawMessage
	Name  string
}

// WorkMode is one top-level choice of a device's work_mode capability
// (e.g. "Auto", "Manual"), together with the sub-values it parameterizes.
type WorkMode struct {
	Name   string
	Value  json.RawMessage
	Values []WorkModeValue
}

// intValue decodes a raw JSON value as an int64, for the common case of
// integer-coded work mode values.
func intValue(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// IntValue returns m's own value decoded as an int64.
func (m WorkMode) IntValue() (int64, bool) {
	return intValue(m.Value)
}

// ContiguousRange reports the gap-free integer range spanned by m's
// sub-values, as a half-open [min, max) range (max is one past the
// largest sub-value), mirroring the upstream contiguous_value_range's
// Range<i64>: a WorkMode is contiguous only when every sub-value is
// unnamed (a preset name means it belongs on a row of buttons, not a
// slider) and, once sorted, forms a run with no gaps.
func (m WorkMode) ContiguousRange() (min, max int64, ok bool) {
	if len(m.Values) == 0 {
		return 0, 0, false
	}
	nums := make([]int64, 0, len(m.Values))
	for _, v := range m.Values {
		if v.Name != "" {
			return 0, 0, false
		}
		n, ok := intValue(v.Value)
		if !ok {
			return 0, 0, false
		}
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	lo, hi := nums[0], nums[len(nums)-1]
	expect := lo
	for _, n := range nums {
		if n != expect {
			return 0, 0, false
		}
		expect++
	}
	return lo, hi + 1, true
}

// ParsedWorkMode is a device's work_mode capability parsed into named
// modes, each carrying whatever sub-values its modeValue field declared.
type ParsedWorkMode struct {
	Modes map[string]WorkMode
}

// ParseWorkModeCapability parses a work_mode capability's nested
// workMode/modeValue struct fields, ported from the upstream
// ParsedWorkMode::with_capability. ok is false if cap carries no usable
// workMode enum.
func ParseWorkModeCapability(cap platform.Capability) (ParsedWorkMode, bool) {
	wm, ok := cap.Parameters.FieldByName("workMode")
	if !ok || wm.DataType != "ENUM" {
		return ParsedWorkMode{}, false
	}

	modes := make(map[string]WorkMode, len(wm.Options))
	for _, opt := range wm.Options {
		modes[opt.Name] = WorkMode{Name: opt.Name, Value: opt.Value}
	}

	if mv, ok := cap.Parameters.FieldByName("modeValue"); ok && mv.DataType == "ENUM" {
		for _, opt := range mv.Options {
			mode, ok := modes[opt.Name]
			if !ok {
				continue
			}
			for _, sub := range opt.Options {
				mode.Values = append(mode.Values, WorkModeValue{Value: sub.Value, Name: sub.Name})
			}
			modes[opt.Name] = mode
		}
	}

	return ParsedWorkMode{Modes: modes}, len(modes) > 0
}

// ModeNames returns every mode's name, sorted.
func (p ParsedWorkMode) ModeNames() []string {
	names := make([]string, 0, len(p.Modes))
	for name := range p.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModeByName looks up one mode by name.
func (p ParsedWorkMode) ModeByName(name string) (WorkMode, bool) {
	m, ok := p.Modes[name]
	return m, ok
}

// ModesWithValues returns, in name order, every mode that carries at
// least one sub-value — the modes a number.mqtt entity can be derived
// from.
func (p ParsedWorkMode) ModesWithValues() []WorkMode {
	names := p.ModeNames()
	out := make([]WorkMode, 0, len(names))
	for _, name := range names {
		if m := p.Modes[name]; len(m.Values) > 0 {
			out = append(out, m)
		}
	}
	return out
}
