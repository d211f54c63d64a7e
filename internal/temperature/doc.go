// Package temperature parses and converts the temperature values exchanged
// with Govee thermometers, humidifiers, and heaters.
//
// Device state reports values in one of four raw encodings (Celsius,
// Celsius×100, Fahrenheit, Fahrenheit×100); this package normalizes those
// into a single Value and converts between Celsius and Fahrenheit for
// display and for Home Assistant's unit_of_measurement field.
package temperature
