package lan

import (
	"context"
	"fmt"

	"github.com/nerrad567/gv2mqtt/internal/ble"
)

// SceneLookup resolves a device's named scene to its numeric BLE scene
// code. Implemented by internal/govee/undoc, which searches the SKU's scene
// library from the undocumented API.
type SceneLookup interface {
	LookupSceneCode(ctx context.Context, sku, sceneName string) (code uint16, ok bool, err error)
}

// SetSceneByName looks up sceneName in device's scene library via lookup
// and sends it as a BLE ptReal command over the LAN transport.
func SetSceneByName(ctx context.Context, device LanDevice, lookup SceneLookup, sceneName string) error {
	code, ok, err := lookup.LookupSceneCode(ctx, device.SKU, sceneName)
	if err != nil {
		return fmt.Errorf("lan: looking up scene %q for %s: %w", sceneName, device.SKU, err)
	}
	if !ok {
		return fmt.Errorf("%w: %q for device %s", ErrSceneNotFound, sceneName, device.Device)
	}

	encoded, err := ble.SetSceneCode(code).Base64()
	if err != nil {
		return fmt.Errorf("lan: encoding scene packet: %w", err)
	}

	return SendReal(device, []string{encoded})
}
