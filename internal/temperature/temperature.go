package temperature

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit-of-measurement symbols, matching Home Assistant's expectations.
const (
	UnitCelsius    = "°C"
	UnitFahrenheit = "°F"

	// DeviceClassTemperature is the Home Assistant sensor device_class for
	// a temperature entity.
	DeviceClassTemperature = "temperature"
)

// Scale is a temperature measurement scale.
type Scale int

const (
	ScaleCelsius Scale = iota
	ScaleFahrenheit
)

// UnitOfMeasurement returns the display unit for the scale.
func (s Scale) UnitOfMeasurement() string {
	if s == ScaleFahrenheit {
		return UnitFahrenheit
	}
	return UnitCelsius
}

func (s Scale) String() string {
	return s.UnitOfMeasurement()
}

// ParseScale parses a scale letter — c/C/°c/°C for Celsius, f/F/°f/°F for
// Fahrenheit — as accepted in environment overrides and MQTT command
// payloads.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "c", "C", "°c", "°C":
		return ScaleCelsius, nil
	case "f", "F", "°f", "°F":
		return ScaleFahrenheit, nil
	default:
		return 0, fmt.Errorf("%w %s", ErrUnknownScale, s)
	}
}

// Units is a raw device-reported encoding: a scale plus a scale factor.
// Govee reports some sensor values multiplied by 100 to avoid transmitting
// a decimal point.
type Units int

const (
	UnitsCelsius Units = iota
	UnitsCelsiusTimes100
	UnitsFahrenheit
	UnitsFahrenheitTimes100
)

func (u Units) factor() float64 {
	switch u {
	case UnitsCelsiusTimes100, UnitsFahrenheitTimes100:
		return 100
	default:
		return 1
	}
}

func (u Units) scale() Scale {
	switch u {
	case UnitsCelsius, UnitsCelsiusTimes100:
		return ScaleCelsius
	default:
		return ScaleFahrenheit
	}
}

// UnitsFromScale maps a plain Scale onto its ×1 Units encoding.
func UnitsFromScale(s Scale) Units {
	if s == ScaleFahrenheit {
		return UnitsFahrenheit
	}
	return UnitsCelsius
}

// UnitOfMeasurement returns the display unit, or "" for scaled encodings
// (×100), which have no single-degree unit of measurement.
func (u Units) UnitOfMeasurement() string {
	if u.factor() != 1 {
		return ""
	}
	return u.scale().UnitOfMeasurement()
}

func (u Units) String() string {
	if u.factor() == 1 {
		return u.scale().String()
	}
	return fmt.Sprintf("%s*%g", u.scale(), u.factor())
}

// MiredToKelvin converts a mired (micro reciprocal degree) color
// temperature value, as used by Home Assistant's legacy light.mqtt
// color_temp field, to Kelvin.
func MiredToKelvin(mired uint32) uint32 {
	if mired == 0 {
		return 0
	}
	return 1_000_000 / mired
}

// KelvinToMired is MiredToKelvin's inverse; the conversion is its own
// inverse since both directions are the same 1,000,000/x reciprocal.
func KelvinToMired(kelvin uint32) uint32 {
	if kelvin == 0 {
		return 0
	}
	return 1_000_000 / kelvin
}

// FtoC converts Fahrenheit to Celsius.
func FtoC(f float64) float64 {
	return (f - 32) * (5.0 / 9.0)
}

// CtoF converts Celsius to Fahrenheit.
func CtoF(c float64) float64 {
	return (c * 9.0 / 5.0) + 32
}

// Value is a temperature in a specific raw Units encoding.
type Value struct {
	unit  Units
	value float64
}

// New builds a Value from a raw reading and its encoding.
func New(value float64, unit Units) Value {
	return Value{value: value, unit: unit}
}

// WithCelsius builds a plain (×1) Celsius value.
func WithCelsius(value float64) Value {
	return Value{value: value, unit: UnitsCelsius}
}

// WithFahrenheit builds a plain (×1) Fahrenheit value.
func WithFahrenheit(value float64) Value {
	return Value{value: value, unit: UnitsFahrenheit}
}

// Raw returns the stored value in its current (possibly ×100) encoding.
func (v Value) Raw() float64 {
	return v.value
}

// Normalize divides away a ×100 scale factor, returning a plain-scale
// value in the same Celsius/Fahrenheit scale.
func (v Value) Normalize() Value {
	return New(v.value/v.unit.factor(), UnitsFromScale(v.unit.scale()))
}

// AsUnit converts the value into the target encoding, crossing the
// Celsius/Fahrenheit scale boundary if needed.
func (v Value) AsUnit(target Units) Value {
	if v.unit == target {
		return v
	}

	normalized := v.value / v.unit.factor()

	var converted float64
	switch {
	case v.unit.scale() == ScaleCelsius && target.scale() == ScaleFahrenheit:
		converted = CtoF(normalized)
	case v.unit.scale() == ScaleFahrenheit && target.scale() == ScaleCelsius:
		converted = FtoC(normalized)
	default:
		converted = normalized
	}

	return Value{unit: target, value: converted * target.factor()}
}

// AsCelsius returns the value normalized to plain-scale Celsius.
func (v Value) AsCelsius() float64 {
	return v.AsUnit(UnitsCelsius).value
}

// AsFahrenheit returns the value normalized to plain-scale Fahrenheit.
func (v Value) AsFahrenheit() float64 {
	return v.AsUnit(UnitsFahrenheit).value
}

func (v Value) String() string {
	n := v.Normalize()
	return fmt.Sprintf("%v%s", n.value, n.unit)
}

// ParseWithOptionalScale parses a numeric string with an optional trailing
// scale suffix ("23", "23.3", "23C", " 23 C "). If the string carries no
// suffix, defaultScale is used when given, otherwise Celsius.
func ParseWithOptionalScale(s string, defaultScale *Scale) (Value, error) {
	number, suffix, err := atof(s)
	if err != nil {
		return Value{}, err
	}

	var scale Scale
	if suffix == "" {
		if defaultScale != nil {
			scale = *defaultScale
		} else {
			scale = ScaleCelsius
		}
	} else {
		scale, err = ParseScale(suffix)
		if err != nil {
			return Value{}, err
		}
	}

	return New(number, UnitsFromScale(scale)), nil
}

// atof extracts a leading numeric prefix (digits and at most one decimal
// point) from a trimmed string, returning the parsed number and whatever
// non-numeric suffix (itself trimmed) remains.
func atof(input string) (float64, string, error) {
	input = strings.TrimSpace(input)

	i := len(input)
	for idx, r := range input {
		if !(r >= '0' && r <= '9') && r != '.' {
			i = idx
			break
		}
	}

	number, err := strconv.ParseFloat(input[:i], 64)
	if err != nil {
		return 0, "", err
	}

	return number, strings.TrimSpace(input[i:]), nil
}
