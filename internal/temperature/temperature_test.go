package temperature

import (
	"errors"
	"math"
	"testing"
)

func fahrenheit() Scale {
	return ScaleFahrenheit
}

func TestParseWithOptionalScale(t *testing.T) {
	f := fahrenheit()

	tests := []struct {
		name     string
		input    string
		scale    *Scale
		expected Value
	}{
		{"bare integer", "23", nil, New(23.0, UnitsCelsius)},
		{"bare decimal", "23.3", nil, New(23.3, UnitsCelsius)},
		{"suffix c", "23C", nil, New(23.0, UnitsCelsius)},
		{"padded with suffix", " 23 C ", nil, New(23.0, UnitsCelsius)},
		{"suffix overrides default", "23C", &f, New(23.0, UnitsCelsius)},
		{"default used when no suffix", "23", &f, New(23.0, UnitsFahrenheit)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWithOptionalScale(tt.input, tt.scale)
			if err != nil {
				t.Fatalf("ParseWithOptionalScale(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseWithOptionalScale(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseWithOptionalScaleUnknownSuffix(t *testing.T) {
	_, err := ParseWithOptionalScale("23frogs", nil)
	if !errors.Is(err, ErrUnknownScale) {
		t.Fatalf("expected ErrUnknownScale, got %v", err)
	}
}

func TestDisplay(t *testing.T) {
	if got := New(22.0, UnitsCelsius).String(); got != "22°C" {
		t.Errorf("String() = %q, want 22°C", got)
	}
	if got := New(2200.0, UnitsCelsiusTimes100).String(); got != "22°C" {
		t.Errorf("String() = %q, want 22°C", got)
	}
}

func TestValueConversion(t *testing.T) {
	if got := math.Floor(New(76, UnitsFahrenheit).AsCelsius()); got != 24 {
		t.Errorf("AsCelsius() floor = %v, want 24", got)
	}
	if got := math.Ceil(New(24.444, UnitsCelsius).AsFahrenheit()); got != 76 {
		t.Errorf("AsFahrenheit() ceil = %v, want 76", got)
	}
	if got := New(76, UnitsFahrenheit).AsUnit(UnitsFahrenheitTimes100).Raw(); got != 7600 {
		t.Errorf("AsUnit(FahrenheitTimes100) = %v, want 7600", got)
	}
	if got := New(24, UnitsCelsius).AsUnit(UnitsCelsiusTimes100).Raw(); got != 2400 {
		t.Errorf("AsUnit(CelsiusTimes100) = %v, want 2400", got)
	}
	if got := New(2400, UnitsCelsiusTimes100).AsUnit(UnitsCelsius).Raw(); got != 24 {
		t.Errorf("AsUnit(Celsius) = %v, want 24", got)
	}
}

func TestParseScale(t *testing.T) {
	valid := map[string]Scale{
		"c": ScaleCelsius, "C": ScaleCelsius, "°c": ScaleCelsius, "°C": ScaleCelsius,
		"f": ScaleFahrenheit, "F": ScaleFahrenheit, "°f": ScaleFahrenheit, "°F": ScaleFahrenheit,
	}
	for s, want := range valid {
		got, err := ParseScale(s)
		if err != nil {
			t.Errorf("ParseScale(%q) error = %v", s, err)
		}
		if got != want {
			t.Errorf("ParseScale(%q) = %v, want %v", s, got, want)
		}
	}

	if _, err := ParseScale("kelvin"); !errors.Is(err, ErrUnknownScale) {
		t.Errorf("ParseScale(kelvin) error = %v, want ErrUnknownScale", err)
	}
}

func TestFtoCAndCtoF(t *testing.T) {
	if got := FtoC(32); got != 0 {
		t.Errorf("FtoC(32) = %v, want 0", got)
	}
	if got := CtoF(0); got != 32 {
		t.Errorf("CtoF(0) = %v, want 32", got)
	}
}

func TestMiredKelvinRoundTrip(t *testing.T) {
	if got := MiredToKelvin(0); got != 0 {
		t.Errorf("MiredToKelvin(0) = %v, want 0", got)
	}
	if got := KelvinToMired(0); got != 0 {
		t.Errorf("KelvinToMired(0) = %v, want 0", got)
	}
	if got := MiredToKelvin(200); got != 5000 {
		t.Errorf("MiredToKelvin(200) = %v, want 5000", got)
	}
	if got := KelvinToMired(5000); got != 200 {
		t.Errorf("KelvinToMired(5000) = %v, want 200", got)
	}
}
