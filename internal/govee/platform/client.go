package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/nerrad567/gv2mqtt/internal/cache"
)

// baseURL is a var, not a const, so tests can point it at a local
// httptest.Server instead of the real Platform API.
var baseURL = "https://openapi.api.govee.com"

const (
	apiKeyHeader = "Govee-API-Key"

	requestTimeout = 60 * time.Second

	cacheTopic    = "platform-api"
	deviceListTTL = 900 * time.Second
	sceneListTTL  = 300 * time.Second
	oneWeek       = 7 * 24 * time.Hour
	negativeTTL   = 60 * time.Second
)

// Client is a Govee Platform API v1 client, authenticated with a static
// API key issued through the Govee Home app.
type Client struct {
	apiKey string
	http   *retryablehttp.Client
	cache  *cache.Store
}

// NewClient builds a Client. cache is used to back list_devices and scene
// library lookups per spec; control and state calls are never cached.
func NewClient(apiKey string, store *cache.Store) *Client {
	h := retryablehttp.NewClient()
	h.RetryMax = 3
	h.Logger = nil
	h.HTTPClient.Timeout = requestTimeout

	return &Client{apiKey: apiKey, http: h, cache: store}
}

func (c *Client) endpoint(path string) string {
	return baseURL + path
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("platform: encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("platform: building request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform: request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("platform: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("platform: request status %d: %s. Response body: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("platform: parsing response as json: %s: %w", string(data), err)
	}
	return nil
}

// ListDevices returns the account's registered devices, cached for 900s
// with a 7-day stale fallback.
func (c *Client) ListDevices(ctx context.Context) ([]DeviceInfo, error) {
	data, err := c.cache.GetOrCompute(ctx, cache.Options{
		Topic:       cacheTopic,
		Key:         "device-list",
		SoftTTL:     deviceListTTL,
		HardTTL:     oneWeek,
		NegativeTTL: negativeTTL,
		AllowStale:  true,
	}, func(ctx context.Context) ([]byte, error) {
		var resp getDevicesResponse
		if err := c.do(ctx, http.MethodGet, c.endpoint("/router/api/v1/user/devices"), nil, &resp); err != nil {
			return nil, err
		}
		return json.Marshal(resp.Data)
	})
	if err != nil {
		return nil, err
	}
	var devices []DeviceInfo
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("platform: decoding cached device list: %w", err)
	}
	return devices, nil
}

// RefreshDevices forces a re-fetch of the account's device list, bypassing
// the cache's soft TTL. Used by the "request platform data" button, so a
// user isn't stuck waiting out ListDevices' 900s cache window after adding
// or repairing a device.
func (c *Client) RefreshDevices(ctx context.Context) ([]DeviceInfo, error) {
	if err := c.cache.Invalidate(cacheTopic, "device-list"); err != nil {
		return nil, fmt.Errorf("platform: invalidating device list cache: %w", err)
	}
	return c.ListDevices(ctx)
}

// GetDeviceByID returns one device from ListDevices, or ErrDeviceNotFound.
func (c *Client) GetDeviceByID(ctx context.Context, id string) (DeviceInfo, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return DeviceInfo{}, err
	}
	for _, d := range devices {
		if d.Device == id {
			return d, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

// GetDeviceState reads a device's current reported state. Not cached.
func (c *Client) GetDeviceState(ctx context.Context, device DeviceInfo) (DeviceState, error) {
	req := getDeviceStateRequest{
		RequestID: uuid.NewString(),
		Payload:   deviceIdentityPayload{SKU: device.SKU, Device: device.Device},
	}
	var resp getDeviceStateResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("/router/api/v1/device/state"), req, &resp); err != nil {
		return DeviceState{}, err
	}
	return resp.Payload, nil
}

// GetDeviceScenes returns the device's built-in scene library, cached for
// 300s with a 7-day stale fallback.
func (c *Client) GetDeviceScenes(ctx context.Context, device DeviceInfo) ([]Capability, error) {
	return c.cachedScenes(ctx, "scene-list", "/router/api/v1/device/scenes", device)
}

// GetDeviceDIYScenes returns the device's user-created DIY scenes, cached
// the same way as GetDeviceScenes.
func (c *Client) GetDeviceDIYScenes(ctx context.Context, device DeviceInfo) ([]Capability, error) {
	return c.cachedScenes(ctx, "scene-list-diy", "/router/api/v1/device/diy-scenes", device)
}

func (c *Client) cachedScenes(ctx context.Context, keyPrefix, path string, device DeviceInfo) ([]Capability, error) {
	key := fmt.Sprintf("%s-%s-%s", keyPrefix, device.SKU, device.Device)
	data, err := c.cache.GetOrCompute(ctx, cache.Options{
		Topic:       cacheTopic,
		Key:         key,
		SoftTTL:     sceneListTTL,
		HardTTL:     oneWeek,
		NegativeTTL: negativeTTL,
		AllowStale:  true,
	}, func(ctx context.Context) ([]byte, error) {
		req := getDeviceScenesRequest{
			RequestID: uuid.NewString(),
			Payload:   deviceIdentityPayload{SKU: device.SKU, Device: device.Device},
		}
		var resp getDeviceScenesResponse
		if err := c.do(ctx, http.MethodPost, c.endpoint(path), req, &resp); err != nil {
			return nil, err
		}
		return json.Marshal(resp.Payload.Capabilities)
	})
	if err != nil {
		return nil, err
	}
	var caps []Capability
	if err := json.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("platform: decoding cached scene list: %w", err)
	}
	return caps, nil
}

// ControlDevice applies value to one of device's capabilities and returns
// the resulting reported state.
func (c *Client) ControlDevice(ctx context.Context, device DeviceInfo, capability Capability, value any) (ControlResult, error) {
	rawValue, err := json.Marshal(value)
	if err != nil {
		return ControlResult{}, fmt.Errorf("platform: encoding control value: %w", err)
	}

	req := controlDeviceRequest{
		RequestID: uuid.NewString(),
		Payload: controlDevicePayload{
			SKU:    device.SKU,
			Device: device.Device,
			Capability: controlDeviceCapability{
				Kind:     capability.Kind,
				Instance: capability.Instance,
				Value:    rawValue,
			},
		},
	}

	var resp controlDeviceResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("/router/api/v1/device/control"), req, &resp); err != nil {
		return ControlResult{}, err
	}
	return resp.Capability, nil
}

// ListSceneNames returns every named scene option available for device,
// drawn from its own capabilities plus its scene and DIY-scene libraries.
func (c *Client) ListSceneNames(ctx context.Context, device DeviceInfo) ([]string, error) {
	sceneCaps, err := c.GetDeviceScenes(ctx, device)
	if err != nil {
		return nil, err
	}
	diyCaps, err := c.GetDeviceDIYScenes(ctx, device)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, caps := range [][]Capability{device.Capabilities, sceneCaps, diyCaps} {
		for _, cap := range caps {
			if !cap.IsSceneCapability() {
				continue
			}
			if cap.Parameters.DataType != "ENUM" {
				return nil, fmt.Errorf("%w: %s/%s", ErrUnexpectedParameters, cap.Kind, cap.Instance)
			}
			for _, opt := range cap.Parameters.Options {
				names = append(names, opt.Name)
			}
		}
	}
	return names, nil
}

// SetSceneByName activates the named scene (case-insensitive), searching
// the device's own capabilities, then its scene library, then its DIY
// scenes, in that order.
func (c *Client) SetSceneByName(ctx context.Context, device DeviceInfo, scene string) (ControlResult, error) {
	sceneCaps, err := c.GetDeviceScenes(ctx, device)
	if err != nil {
		return ControlResult{}, err
	}
	diyCaps, err := c.GetDeviceDIYScenes(ctx, device)
	if err != nil {
		return ControlResult{}, err
	}

	for _, caps := range [][]Capability{device.Capabilities, sceneCaps, diyCaps} {
		for _, cap := range caps {
			if !cap.IsSceneCapability() {
				continue
			}
			if cap.Parameters.DataType != "ENUM" {
				return ControlResult{}, fmt.Errorf("%w: %s/%s", ErrUnexpectedParameters, cap.Kind, cap.Instance)
			}
			for _, opt := range cap.Parameters.Options {
				if strings.EqualFold(opt.Name, scene) {
					return c.ControlDevice(ctx, device, cap, json.RawMessage(opt.Value))
				}
			}
		}
	}
	return ControlResult{}, fmt.Errorf("%w: %q", ErrSceneNotFound, scene)
}

// SetPowerState turns device on or off via its powerSwitch capability.
func (c *Client) SetPowerState(ctx context.Context, device DeviceInfo, on bool) (ControlResult, error) {
	cap, ok := device.CapabilityByInstance("powerSwitch")
	if !ok {
		return ControlResult{}, fmt.Errorf("%w: powerSwitch", ErrCapabilityNotFound)
	}
	name := "off"
	if on {
		name = "on"
	}
	value, ok := cap.EnumParameterByName(name)
	if !ok {
		return ControlResult{}, fmt.Errorf("%w: powerSwitch has no %q option", ErrUnexpectedParameters, name)
	}
	return c.ControlDevice(ctx, device, cap, value)
}

// SetBrightness sets device's brightness, clamped to its reported range.
func (c *Client) SetBrightness(ctx context.Context, device DeviceInfo, percent uint8) (ControlResult, error) {
	cap, ok := device.CapabilityByInstance("brightness")
	if !ok {
		return ControlResult{}, fmt.Errorf("%w: brightness", ErrCapabilityNotFound)
	}
	if cap.Parameters.DataType != "INTEGER" || cap.Parameters.Range == nil {
		return ControlResult{}, fmt.Errorf("%w: brightness", ErrUnexpectedParameters)
	}
	value := clampU32(uint32(percent), cap.Parameters.Range.Min, cap.Parameters.Range.Max)
	return c.ControlDevice(ctx, device, cap, value)
}

// SetColorTemperature sets device's white-balance temperature in Kelvin,
// clamped to its reported range.
func (c *Client) SetColorTemperature(ctx context.Context, device DeviceInfo, kelvin uint32) (ControlResult, error) {
	cap, ok := device.CapabilityByInstance("colorTemperatureK")
	if !ok {
		return ControlResult{}, fmt.Errorf("%w: colorTemperatureK", ErrCapabilityNotFound)
	}
	if cap.Parameters.DataType != "INTEGER" || cap.Parameters.Range == nil {
		return ControlResult{}, fmt.Errorf("%w: colorTemperatureK", ErrUnexpectedParameters)
	}
	value := clampU32(kelvin, cap.Parameters.Range.Min, cap.Parameters.Range.Max)
	return c.ControlDevice(ctx, device, cap, value)
}

// SetColorRGB sets device's color, packed as 0xRRGGBB per the Platform
// API's colorRgb capability.
func (c *Client) SetColorRGB(ctx context.Context, device DeviceInfo, r, g, b uint8) (ControlResult, error) {
	cap, ok := device.CapabilityByInstance("colorRgb")
	if !ok {
		return ControlResult{}, fmt.Errorf("%w: colorRgb", ErrCapabilityNotFound)
	}
	value := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	return c.ControlDevice(ctx, device, cap, value)
}

func clampU32(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
