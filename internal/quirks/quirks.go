package quirks

// Icon constants, Material Design Icons names used as Home Assistant
// entity icons for device types the API's own icon metadata handles badly.
const (
	iconStrip       = "mdi:led-strip-variant"
	iconStripAlt    = "mdi:led-strip"
	iconFlood       = "mdi:light-flood-down"
	iconString      = "mdi:string-lights"
	IconBulb        = "mdi:light-bulb"
	iconFloorLamp   = "mdi:floor-lamp"
	iconTVBack      = "mdi:television-ambient-light"
	iconDesk        = "mdi:desk-lamp"
	iconHex         = "mdi:hexagon-multiple"
	iconTriangle    = "mdi-triangle"
	iconNightlight  = "mdi:lightbulb-night"
	iconWallSconce  = "mdi:wall-sconce"
	iconOutdoorLamp = "mdi:outdoor-lamp"
	iconSpotlight   = "mdi:lightbulb-spot"
)

// defaultColorTempMin/Max bound the color temperature range assumed for an
// RGB+CCT light quirk when the API doesn't report one of its own.
const (
	defaultColorTempMin = 2000
	defaultColorTempMax = 9000
)

// ColorTempRange is an inclusive Kelvin range a light supports.
type ColorTempRange struct {
	Min, Max uint32
}

// Quirk overrides or supplements a device's Platform/Undoc API metadata.
type Quirk struct {
	SKU                string
	Icon               string
	SupportsRGB        bool
	SupportsBrightness bool
	ColorTempRange     *ColorTempRange
	AvoidPlatformAPI   bool
	BLEOnly            bool
	LANAPICapable      bool
}

// Light builds the default quirk shape for an RGB+CCT light: RGB and
// brightness support, a typical 2000-9000K color temperature range.
func Light(sku, icon string) Quirk {
	return Quirk{
		SKU:                sku,
		Icon:               icon,
		SupportsRGB:        true,
		SupportsBrightness: true,
		ColorTempRange:     &ColorTempRange{Min: defaultColorTempMin, Max: defaultColorTempMax},
	}
}

// WithLANAPI marks a quirk as controllable over the LAN UDP transport.
func (q Quirk) WithLANAPI() Quirk {
	q.LANAPICapable = true
	return q
}

// WithBrokenPlatform marks a quirk whose Platform API metadata is known to
// be wrong, so callers should avoid relying on it for capability detection.
func (q Quirk) WithBrokenPlatform() Quirk {
	q.AvoidPlatformAPI = true
	return q
}

// LANAPICapableLight is the common case: a light documented as LAN API
// capable, with default RGB/brightness/color-temp support.
func LANAPICapableLight(sku, icon string) Quirk {
	return Light(sku, icon).WithLANAPI()
}

// builtins lists quirks in the same order Govee's LAN API guide and known
// issue reports were folded into the original implementation. Later
// entries for the same SKU intentionally overwrite earlier ones — this
// matters for H610A and H6159 below, whose broken-platform marking from an
// old issue report is superseded once the SKU was confirmed LAN-capable.
var builtins = []Quirk{
	// https://github.com/wez/govee2mqtt/issues/7
	LANAPICapableLight("H610A", iconStrip).WithBrokenPlatform(),
	// https://github.com/wez/govee2mqtt/issues/15
	Light("H6141", iconStrip).WithBrokenPlatform(),
	// https://github.com/wez/govee2mqtt/issues/14#issuecomment-1880050091
	Light("H6159", iconStrip).WithBrokenPlatform(),

	// Lights from Govee's LAN API device list:
	// https://app-h5.govee.com/user-manual/wlan-guide
	LANAPICapableLight("H6072", iconFloorLamp),
	LANAPICapableLight("H619B", iconStrip),
	LANAPICapableLight("H619C", iconStrip),
	LANAPICapableLight("H619Z", iconStrip),
	LANAPICapableLight("H7060", iconFlood),
	LANAPICapableLight("H6046", iconTVBack),
	LANAPICapableLight("H6047", iconTVBack),
	LANAPICapableLight("H6051", iconDesk),
	LANAPICapableLight("H6056", iconStripAlt),
	LANAPICapableLight("H6059", iconNightlight),
	LANAPICapableLight("H6061", iconHex),
	LANAPICapableLight("H6062", iconStrip),
	LANAPICapableLight("H6065", iconStrip),
	LANAPICapableLight("H6066", iconHex),
	LANAPICapableLight("H6067", iconTriangle),
	LANAPICapableLight("H6073", iconFloorLamp),
	LANAPICapableLight("H6076", iconFloorLamp),
	LANAPICapableLight("H6078", iconFloorLamp),
	LANAPICapableLight("H6087", iconWallSconce),
	LANAPICapableLight("H610A", iconStrip),
	LANAPICapableLight("H610B", iconStrip),
	LANAPICapableLight("H6117", iconStrip),
	LANAPICapableLight("H6159", iconStrip),
	LANAPICapableLight("H615E", iconStrip),
	LANAPICapableLight("H6163", iconStrip),
	LANAPICapableLight("H6168", iconTVBack),
	LANAPICapableLight("H6172", iconStrip),
	LANAPICapableLight("H6173", iconStrip),
	LANAPICapableLight("H618A", iconStrip),
	LANAPICapableLight("H618C", iconStrip),
	LANAPICapableLight("H618E", iconStrip),
	LANAPICapableLight("H618F", iconStrip),
	LANAPICapableLight("H619A", iconStrip),
	LANAPICapableLight("H619D", iconStrip),
	LANAPICapableLight("H619E", iconStrip),
	LANAPICapableLight("H61A0", iconStrip),
	LANAPICapableLight("H61A1", iconStrip),
	LANAPICapableLight("H61A2", iconStrip),
	LANAPICapableLight("H61A3", iconStrip),
	LANAPICapableLight("H61A5", iconStrip),
	LANAPICapableLight("H61A8", iconStrip),
	LANAPICapableLight("H61B2", iconTVBack),
	LANAPICapableLight("H61E1", iconStrip),
	LANAPICapableLight("H7012", iconString),
	LANAPICapableLight("H7013", iconString),
	LANAPICapableLight("H7021", iconString),
	LANAPICapableLight("H7028", iconString),
	LANAPICapableLight("H7041", iconString),
	LANAPICapableLight("H7042", iconString),
	LANAPICapableLight("H7050", IconBulb),
	LANAPICapableLight("H7051", IconBulb),
	LANAPICapableLight("H7055", IconBulb),
	LANAPICapableLight("H705A", iconOutdoorLamp),
	LANAPICapableLight("H705B", iconOutdoorLamp),
	LANAPICapableLight("H7061", iconFlood),
	LANAPICapableLight("H7062", iconFlood),
	LANAPICapableLight("H7065", iconSpotlight),
}

func loadBuiltins() map[string]Quirk {
	m := make(map[string]Quirk, len(builtins))
	for _, q := range builtins {
		m[q.SKU] = q
	}
	return m
}
