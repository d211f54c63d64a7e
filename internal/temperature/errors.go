package temperature

import "errors"

// ErrUnknownScale is returned when a temperature string's trailing unit
// suffix isn't one of the recognized scale letters.
var ErrUnknownScale = errors.New("temperature: unknown scale")
