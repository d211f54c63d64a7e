package platform

import "encoding/json"

// Capability kind values as returned by the Platform API's "type" field.
const (
	CapabilityOnOff               = "devices.capabilities.on_off"
	CapabilityToggle              = "devices.capabilities.toggle"
	CapabilityRange               = "devices.capabilities.range"
	CapabilityMode                = "devices.capabilities.mode"
	CapabilityColorSetting        = "devices.capabilities.color_setting"
	CapabilitySegmentColorSetting = "devices.capabilities.segment_color_setting"
	CapabilityMusicSetting        = "devices.capabilities.music_setting"
	CapabilityDynamicScene        = "devices.capabilities.dynamic_scene"
	CapabilityWorkMode            = "devices.capabilities.work_mode"
	CapabilityDynamicSetting      = "devices.capabilities.dynamic_setting"
	CapabilityTemperatureSetting  = "devices.capabilities.temperature_setting"
	CapabilityOnline              = "devices.capabilities.online"
	CapabilityProperty            = "devices.capabilities.property"
)

// Device type values as returned by the Platform API's "type" field.
const (
	DeviceTypeLight         = "devices.types.light"
	DeviceTypeAirPurifier   = "devices.types.air_purifier"
	DeviceTypeThermometer   = "devices.types.thermometer"
	DeviceTypeSocket        = "devices.types.socket"
	DeviceTypeSensor        = "devices.types.sensor"
	DeviceTypeHeater        = "devices.types.heater"
	DeviceTypeHumidifier    = "devices.types.humidifier"
	DeviceTypeDehumidifier  = "devices.types.dehumidifer"
	DeviceTypeIceMaker      = "devices.types.ice_maker"
	DeviceTypeAromaDiffuser = "devices.types.aroma_diffuser"
)

// EnumOption is one named choice in an ENUM-typed capability parameter.
// Options may themselves carry a nested list of sub-choices: a work_mode
// capability's "modeValue" field uses this to attach each mode's list of
// preset/slider sub-values.
type EnumOption struct {
	Name    string          `json:"name"`
	Value   json.RawMessage `json:"value"`
	Options []EnumOption    `json:"options,omitempty"`
}

// IntValue returns the option's value as an int64, for the common case of
// integer-coded enum values (e.g. powerSwitch's on/off).
func (o EnumOption) IntValue() (int64, bool) {
	var n int64
	if err := json.Unmarshal(o.Value, &n); err != nil {
		return 0, false
	}
	return n, true
}

// IntegerRange bounds an INTEGER-typed capability parameter.
type IntegerRange struct {
	Min       uint32 `json:"min"`
	Max       uint32 `json:"max"`
	Precision uint32 `json:"precision"`
}

// ArraySize bounds how many elements a single write to an ARRAY-typed
// capability parameter may address at once.
type ArraySize struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

// ElementRange bounds the addressable index domain of an ARRAY-typed
// capability parameter's elements — e.g. which segment indices a
// segment_color_setting capability's "segment" field accepts.
type ElementRange struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

// Field is one named member of a STRUCT-typed capability parameter, e.g.
// a work_mode capability's "workMode"/"modeValue" fields, or a
// segment_color_setting capability's "segment"/"rgb" fields. It embeds
// Parameters to mirror the Platform API's flattened field type.
type Field struct {
	Name string `json:"fieldName"`
	Parameters
}

// Parameters is a capability's parameter schema. Its shape is
// discriminated by DataType; only the fields relevant to that type are
// populated. This mirrors the Platform API's tagged "dataType" union.
type Parameters struct {
	DataType     string        `json:"dataType"`
	Options      []EnumOption  `json:"options,omitempty"`
	Unit         string        `json:"unit,omitempty"`
	Range        *IntegerRange `json:"range,omitempty"`
	Fields       []Field       `json:"fields,omitempty"`
	Size         *ArraySize    `json:"size,omitempty"`
	ElementRange *ElementRange `json:"elementRange,omitempty"`
}

// FieldByName returns the named field of a STRUCT-typed parameter, if
// present.
func (p Parameters) FieldByName(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Capability describes one controllable or reportable aspect of a device.
type Capability struct {
	Kind       string     `json:"type"`
	Instance   string     `json:"instance"`
	Parameters Parameters `json:"parameters"`
}

// EnumParameterByName returns the integer value of the named enum option,
// if the capability's parameters are ENUM-typed and contain it.
func (c Capability) EnumParameterByName(name string) (int64, bool) {
	if c.Parameters.DataType != "ENUM" {
		return 0, false
	}
	for _, opt := range c.Parameters.Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0, false
}

// IsSceneCapability reports whether this capability exposes a named scene
// list (dynamic_scene or dynamic_setting).
func (c Capability) IsSceneCapability() bool {
	return c.Kind == CapabilityDynamicScene || c.Kind == CapabilityDynamicSetting
}

// DeviceInfo describes one device as returned by list_devices.
type DeviceInfo struct {
	SKU          string       `json:"sku"`
	Device       string       `json:"device"`
	DeviceName   string       `json:"deviceName"`
	DeviceType   string       `json:"type"`
	Capabilities []Capability `json:"capabilities"`
}

// CapabilityByInstance returns the named capability, if the device has it.
func (d DeviceInfo) CapabilityByInstance(instance string) (Capability, bool) {
	for _, c := range d.Capabilities {
		if c.Instance == instance {
			return c, true
		}
	}
	return Capability{}, false
}

// SupportsRGB reports whether the device exposes a colorRgb capability.
func (d DeviceInfo) SupportsRGB() bool {
	_, ok := d.CapabilityByInstance("colorRgb")
	return ok
}

// SupportsBrightness reports whether the device exposes a brightness
// capability.
func (d DeviceInfo) SupportsBrightness() bool {
	_, ok := d.CapabilityByInstance("brightness")
	return ok
}

// ColorTemperatureRange returns the device's supported Kelvin range, if it
// exposes a colorTemperatureK capability with an INTEGER parameter.
func (d DeviceInfo) ColorTemperatureRange() (min, max uint32, ok bool) {
	cap, ok := d.CapabilityByInstance("colorTemperatureK")
	if !ok || cap.Parameters.Range == nil {
		return 0, 0, false
	}
	return cap.Parameters.Range.Min, cap.Parameters.Range.Max, true
}

// SegmentRange returns the inclusive addressable segment-index domain of
// d's segment_color_setting capability, if it has one.
func (d DeviceInfo) SegmentRange() (min, max int, ok bool) {
	cap, ok := d.CapabilityByInstance("segmentedColorRgb")
	if !ok {
		return 0, 0, false
	}
	field, ok := cap.Parameters.FieldByName("segment")
	if !ok || field.ElementRange == nil {
		return 0, 0, false
	}
	return int(field.ElementRange.Min), int(field.ElementRange.Max), true
}

// IsFan reports whether d should be published as a fan entity: it
// exposes a gearMode range capability (fan speed) and isn't itself a
// humidifier (several humidifier SKUs share the gearMode/workMode
// plumbing without being fans).
func (d DeviceInfo) IsFan() bool {
	_, ok := d.CapabilityByInstance("gearMode")
	return ok && d.DeviceType != DeviceTypeHumidifier
}

// CapabilityState is one capability's current reported value.
type CapabilityState struct {
	Kind     string          `json:"type"`
	Instance string          `json:"instance"`
	State    json.RawMessage `json:"state"`
}

// DeviceState is the full reported state of a device.
type DeviceState struct {
	SKU          string            `json:"sku"`
	Device       string            `json:"device"`
	Capabilities []CapabilityState `json:"capabilities"`
}

// ControlResult is the capability state the API reports back after a
// control_device call is applied.
type ControlResult struct {
	Kind     string          `json:"type"`
	Instance string          `json:"instance"`
	Value    json.RawMessage `json:"value"`
	State    json.RawMessage `json:"state"`
}

type getDevicesResponse struct {
	Code    uint32       `json:"code"`
	Message string       `json:"msg"`
	Data    []DeviceInfo `json:"data"`
}

type getDeviceScenesRequest struct {
	RequestID string                `json:"requestId"`
	Payload   deviceIdentityPayload `json:"payload"`
}

type deviceIdentityPayload struct {
	SKU    string `json:"sku"`
	Device string `json:"device"`
}

type getDeviceScenesResponse struct {
	RequestID string                      `json:"requestId"`
	Code      uint32                      `json:"code"`
	Message   string                      `json:"msg"`
	Payload   getDeviceScenesResponseBody `json:"payload"`
}

type getDeviceScenesResponseBody struct {
	SKU          string       `json:"sku"`
	Device       string       `json:"device"`
	Capabilities []Capability `json:"capabilities"`
}

type getDeviceStateRequest struct {
	RequestID string                `json:"requestId"`
	Payload   deviceIdentityPayload `json:"payload"`
}

type getDeviceStateResponse struct {
	RequestID string      `json:"requestId"`
	Code      uint32      `json:"code"`
	Message   string      `json:"msg"`
	Payload   DeviceState `json:"payload"`
}

type controlDeviceRequest struct {
	RequestID string               `json:"requestId"`
	Payload   controlDevicePayload `json:"payload"`
}

type controlDevicePayload struct {
	SKU        string                  `json:"sku"`
	Device     string                  `json:"device"`
	Capability controlDeviceCapability `json:"capability"`
}

type controlDeviceCapability struct {
	Kind     string          `json:"type"`
	Instance string          `json:"instance"`
	Value    json.RawMessage `json:"value"`
}

type controlDeviceResponse struct {
	RequestID  string        `json:"requestId"`
	Code       uint32        `json:"code"`
	Message    string        `json:"msg"`
	Capability ControlResult `json:"capability"`
}
