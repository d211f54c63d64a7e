package undoc

import (
	"context"
	"strings"
)

// LookupSceneCode implements internal/govee/lan's SceneLookup interface,
// letting the LAN transport activate a named scene without importing this
// package directly. It walks sku's scene library, matching sceneName
// case-insensitively against each scene's name, and returns the numeric
// scene code of the matching scene's first light effect entry for
// ble.SetSceneCode. The names of individual light effect entries are not
// searched.
func (c *Client) LookupSceneCode(ctx context.Context, sku, sceneName string) (uint16, bool, error) {
	categories, err := c.GetScenesForDevice(ctx, sku)
	if err != nil {
		return 0, false, err
	}
	for _, category := range categories {
		for _, scene := range category.Scenes {
			if !strings.EqualFold(scene.SceneName, sceneName) {
				continue
			}
			for _, entry := range scene.LightEffects {
				return entry.SceneCode, true, nil
			}
		}
	}
	return 0, false, nil
}
