package undoc

import (
	"encoding/json"
	"fmt"
)

// intBool unmarshals the wire format's 0/1 integers (and, defensively,
// literal booleans) as bool.
type intBool bool

func (b *intBool) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = intBool(n != 0)
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("undoc: decoding boolean-int field: %w", err)
	}
	*b = intBool(v)
	return nil
}

func unmarshalEmbedded(raw string, out any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("undoc: decoding embedded json field: %w", err)
	}
	return nil
}

// IotKey is the AWS IoT credential bundle returned by get_iot_key.
type IotKey struct {
	Endpoint string `json:"endpoint"`
	Log      string `json:"log"`
	P12      string `json:"p12"`
	P12Pass  string `json:"p12Pass"`
}

// LoginAccountResponse is returned by login_account.
type LoginAccountResponse struct {
	A                string  `json:"A"`
	B                string  `json:"B"`
	AccountID        uint64  `json:"accountId"`
	Client           string  `json:"client"`
	IsSavvyUser      bool    `json:"isSavvyUser"`
	RefreshToken     *string `json:"refreshToken"`
	ClientName       *string `json:"clientName"`
	PushToken        *string `json:"pushToken"`
	VersionCode      *string `json:"versionCode"`
	VersionName      *string `json:"versionName"`
	SysVersion       *string `json:"sysVersion"`
	Token            string  `json:"token"`
	TokenExpireCycle uint32  `json:"tokenExpireCycle"`
	Topic            string  `json:"topic"`
}

// DevicesResponse is returned by get_device_list.
type DevicesResponse struct {
	Devices []DeviceEntry `json:"devices"`
	Groups  []GroupEntry  `json:"groups"`
	Message string        `json:"message"`
	Status  uint32        `json:"status"`
}

// GroupEntry is one device group as returned by get_device_list.
type GroupEntry struct {
	GroupID   uint64 `json:"groupId"`
	GroupName string `json:"groupName"`
}

// DeviceEntry is one device as returned by get_device_list.
type DeviceEntry struct {
	AttributesID uint32        `json:"attributesId"`
	DeviceID     *uint32       `json:"deviceId"`
	Device       string        `json:"device"`
	DeviceExt    DeviceEntryExt `json:"deviceExt"`
	DeviceName   string        `json:"deviceName"`
	GoodsType    uint32        `json:"goodsType"`
	GroupID      uint64        `json:"groupId"`
	PactCode     uint32        `json:"pactCode"`
	PactType     uint32        `json:"pactType"`
	Share        uint32        `json:"share"`
	SKU          string        `json:"sku"`
	Spec         string        `json:"spec"`
	SupportScene bool          `json:"-"`
	VersionHard  string        `json:"versionHard"`
	VersionSoft  string        `json:"versionSoft"`
}

type deviceEntryWire struct {
	AttributesID uint32         `json:"attributesId"`
	DeviceID     *uint32        `json:"deviceId"`
	Device       string         `json:"device"`
	DeviceExt    DeviceEntryExt `json:"deviceExt"`
	DeviceName   string         `json:"deviceName"`
	GoodsType    uint32         `json:"goodsType"`
	GroupID      uint64         `json:"groupId"`
	PactCode     uint32         `json:"pactCode"`
	PactType     uint32         `json:"pactType"`
	Share        uint32         `json:"share"`
	SKU          string         `json:"sku"`
	Spec         string         `json:"spec"`
	SupportScene intBool        `json:"supportScene"`
	VersionHard  string         `json:"versionHard"`
	VersionSoft  string         `json:"versionSoft"`
}

// UnmarshalJSON translates the wire format's 0/1 supportScene into a bool.
func (d *DeviceEntry) UnmarshalJSON(data []byte) error {
	var wire deviceEntryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = DeviceEntry{
		AttributesID: wire.AttributesID,
		DeviceID:     wire.DeviceID,
		Device:       wire.Device,
		DeviceExt:    wire.DeviceExt,
		DeviceName:   wire.DeviceName,
		GoodsType:    wire.GoodsType,
		GroupID:      wire.GroupID,
		PactCode:     wire.PactCode,
		PactType:     wire.PactType,
		Share:        wire.Share,
		SKU:          wire.SKU,
		Spec:         wire.Spec,
		SupportScene: bool(wire.SupportScene),
		VersionHard:  wire.VersionHard,
		VersionSoft:  wire.VersionSoft,
	}
	return nil
}

// DeviceEntryExt holds a device entry's three JSON-string-encoded fields,
// transparently re-parsed on decode.
type DeviceEntryExt struct {
	DeviceSettings DeviceSettings
	ExtResources   ExtResources
	LastDeviceData LastDeviceData
}

type deviceEntryExtWire struct {
	DeviceSettings string `json:"deviceSettings"`
	ExtResources   string `json:"extResources"`
	LastDeviceData string `json:"lastDeviceData"`
}

func (e *DeviceEntryExt) UnmarshalJSON(data []byte) error {
	var wire deviceEntryExtWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if err := unmarshalEmbedded(wire.DeviceSettings, &e.DeviceSettings); err != nil {
		return err
	}
	if err := unmarshalEmbedded(wire.ExtResources, &e.ExtResources); err != nil {
		return err
	}
	if err := unmarshalEmbedded(wire.LastDeviceData, &e.LastDeviceData); err != nil {
		return err
	}
	return nil
}

// DeviceSettings is the parsed content of DeviceEntryExt's deviceSettings
// field.
type DeviceSettings struct {
	WifiName                 string  `json:"wifiName"`
	Address                  string  `json:"address"`
	BleName                  string  `json:"bleName"`
	Topic                    string  `json:"topic"`
	WifiMac                  string  `json:"wifiMac"`
	PactType                 uint32  `json:"pactType"`
	PactCode                 uint32  `json:"pactCode"`
	WifiSoftVersion          string  `json:"wifiSoftVersion"`
	WifiHardVersion          string  `json:"wifiHardVersion"`
	IC                       *uint32 `json:"ic"`
	ICSub1                   *uint32 `json:"ic_sub_1"`
	ICSub2                   *uint32 `json:"ic_sub_2"`
	SecretCode               *string `json:"secretCode"`
	BoilWaterCompletedNotiOn bool    `json:"-"`
	CompletionNotiOn         bool    `json:"-"`
	AutoShutDownOn           bool    `json:"-"`
	SKU                      string  `json:"sku"`
	Device                   string  `json:"device"`
	DeviceName               string  `json:"deviceName"`
	VersionHard              string  `json:"versionHard"`
	VersionSoft              string  `json:"versionSoft"`
	PlayState                bool    `json:"playState"`
}

type deviceSettingsWire struct {
	WifiName                       string  `json:"wifiName"`
	Address                        string  `json:"address"`
	BleName                        string  `json:"bleName"`
	Topic                          string  `json:"topic"`
	WifiMac                        string  `json:"wifiMac"`
	PactType                       uint32  `json:"pactType"`
	PactCode                       uint32  `json:"pactCode"`
	WifiSoftVersion                string  `json:"wifiSoftVersion"`
	WifiHardVersion                string  `json:"wifiHardVersion"`
	IC                             *uint32 `json:"ic"`
	ICSub1                         *uint32 `json:"ic_sub_1"`
	ICSub2                         *uint32 `json:"ic_sub_2"`
	SecretCode                     *string `json:"secretCode"`
	BoilWaterCompletedNotiOnOff    intBool `json:"boilWaterCompletedNotiOnOff"`
	CompletionNotiOnOff            intBool `json:"completionNotiOnOff"`
	AutoShutDownOnOff              intBool `json:"autoShutDownOnOff"`
	SKU                            string  `json:"sku"`
	Device                         string  `json:"device"`
	DeviceName                     string  `json:"deviceName"`
	VersionHard                    string  `json:"versionHard"`
	VersionSoft                    string  `json:"versionSoft"`
	PlayState                      bool    `json:"playState"`
}

func (s *DeviceSettings) UnmarshalJSON(data []byte) error {
	var wire deviceSettingsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = DeviceSettings{
		WifiName:                 wire.WifiName,
		Address:                  wire.Address,
		BleName:                  wire.BleName,
		Topic:                    wire.Topic,
		WifiMac:                  wire.WifiMac,
		PactType:                 wire.PactType,
		PactCode:                 wire.PactCode,
		WifiSoftVersion:          wire.WifiSoftVersion,
		WifiHardVersion:          wire.WifiHardVersion,
		IC:                       wire.IC,
		ICSub1:                   wire.ICSub1,
		ICSub2:                   wire.ICSub2,
		SecretCode:               wire.SecretCode,
		BoilWaterCompletedNotiOn: bool(wire.BoilWaterCompletedNotiOnOff),
		CompletionNotiOn:         bool(wire.CompletionNotiOnOff),
		AutoShutDownOn:           bool(wire.AutoShutDownOnOff),
		SKU:                      wire.SKU,
		Device:                   wire.Device,
		DeviceName:               wire.DeviceName,
		VersionHard:              wire.VersionHard,
		VersionSoft:              wire.VersionSoft,
		PlayState:                wire.PlayState,
	}
	return nil
}

// ExtResources is the parsed content of DeviceEntryExt's extResources field.
type ExtResources struct {
	SkuURL       string  `json:"skuUrl"`
	HeadOnImgNew *string `json:"headOnImgNew"`
	HeadOnImg    string  `json:"headOnImg"`
	HeadOffImg   string  `json:"headOffImg"`
	HeadOffImgNew *string `json:"headOffImgNew"`
	Ext          string  `json:"ext"`
	IC           uint32  `json:"ic"`
}

// LastDeviceData is the parsed content of DeviceEntryExt's lastDeviceData
// field.
type LastDeviceData struct {
	Online bool `json:"online"`
}

// LightEffectLibraryResponse is returned by get_scenes_for_device.
type LightEffectLibraryResponse struct {
	Data    LightEffectLibraryCategoryList `json:"data"`
	Message string                         `json:"message"`
	Status  uint32                         `json:"status"`
}

// LightEffectLibraryCategoryList groups a device's scene categories.
type LightEffectLibraryCategoryList struct {
	Categories   []LightEffectCategory `json:"categories"`
	SupportSpeed uint8                 `json:"supportSpeed"`
}

// LightEffectCategory is one named group of scenes (e.g. "Nature", "Party").
type LightEffectCategory struct {
	CategoryID   uint32             `json:"categoryId"`
	CategoryName string             `json:"categoryName"`
	Scenes       []LightEffectScene `json:"scenes"`
}

// LightEffectScene is one selectable scene within a category.
type LightEffectScene struct {
	SceneID            uint32             `json:"sceneId"`
	IconURLs           []string           `json:"iconUrls"`
	SceneName          string             `json:"sceneName"`
	AnalyticName       string             `json:"analyticName"`
	SceneType          uint32             `json:"sceneType"`
	SceneCode          uint32             `json:"sceneCode"`
	ScenceCategoryID   uint32             `json:"scenceCategoryId"`
	PopUpPrompt        uint32             `json:"popUpPrompt"`
	ScenesHint         string             `json:"scenesHint"`
	Rule               json.RawMessage    `json:"rule"`
	LightEffects       []LightEffectEntry `json:"lightEffects"`
	VoiceURL           string             `json:"voiceUrl"`
	CreateTime         uint64             `json:"createTime"`
}

// LightEffectEntry is one device-version-specific encoding of a scene; the
// SceneCode here (distinct from LightEffectScene.SceneCode) is the value
// ble.SetSceneCode expects when activating the scene over LAN or BLE.
type LightEffectEntry struct {
	ScenceParamID  uint32            `json:"scenceParamId"`
	ScenceName     string            `json:"scenceName"`
	ScenceParam    string            `json:"scenceParam"`
	SceneCode      uint16            `json:"sceneCode"`
	SpecialEffect  []json.RawMessage `json:"specialEffect"`
	CmdVersion     uint32            `json:"cmdVersion"`
	SceneType      uint32            `json:"sceneType"`
	DiyEffectCode  []json.RawMessage `json:"diyEffectCode"`
	DiyEffectStr   string            `json:"diyEffectStr"`
	Rules          []json.RawMessage `json:"rules"`
	SpeedInfo      json.RawMessage   `json:"speedInfo"`
}

// OneClickResponse is returned by get_saved_one_click_shortcuts.
type OneClickResponse struct {
	Data    OneClickComponentList `json:"data"`
	Message string                `json:"message"`
	Status  uint32                `json:"status"`
}

// OneClickComponentList wraps the component array in the response envelope.
type OneClickComponentList struct {
	Components []OneClickComponent `json:"components"`
}

// OneClickComponent is one saved "one-click" automation shortcut.
type OneClickComponent struct {
	CanDisable    *uint8            `json:"canDisable"`
	CanManage     bool              `json:"-"`
	FeastType     *uint64           `json:"feastType"`
	Feasts        []json.RawMessage `json:"feasts"`
	Groups        []json.RawMessage `json:"groups"`
	MainDevice    json.RawMessage   `json:"mainDevice"`
	ComponentID   uint64            `json:"componentId"`
	Environments  []json.RawMessage `json:"environments"`
	Name          string            `json:"name"`
	ComponentType uint64            `json:"type"`
	GuideURL      *string           `json:"guideUrl"`
	H5URL         *string           `json:"h5Url"`
	VideoURL      *string           `json:"videoUrl"`
	OneClicks     []OneClick        `json:"oneClicks"`
}

type oneClickComponentWire struct {
	CanDisable    *uint8            `json:"canDisable"`
	CanManage     intBool           `json:"canManage"`
	FeastType     *uint64           `json:"feastType"`
	Feasts        []json.RawMessage `json:"feasts"`
	Groups        []json.RawMessage `json:"groups"`
	MainDevice    json.RawMessage   `json:"mainDevice"`
	ComponentID   uint64            `json:"componentId"`
	Environments  []json.RawMessage `json:"environments"`
	Name          string            `json:"name"`
	ComponentType uint64            `json:"type"`
	GuideURL      *string           `json:"guideUrl"`
	H5URL         *string           `json:"h5Url"`
	VideoURL      *string           `json:"videoUrl"`
	OneClicks     []OneClick        `json:"oneClicks"`
}

func (c *OneClickComponent) UnmarshalJSON(data []byte) error {
	var wire oneClickComponentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = OneClickComponent{
		CanDisable:    wire.CanDisable,
		CanManage:     bool(wire.CanManage),
		FeastType:     wire.FeastType,
		Feasts:        wire.Feasts,
		Groups:        wire.Groups,
		MainDevice:    wire.MainDevice,
		ComponentID:   wire.ComponentID,
		Environments:  wire.Environments,
		Name:          wire.Name,
		ComponentType: wire.ComponentType,
		GuideURL:      wire.GuideURL,
		H5URL:         wire.H5URL,
		VideoURL:      wire.VideoURL,
		OneClicks:     wire.OneClicks,
	}
	return nil
}

// OneClick is one action within a OneClickComponent.
type OneClick struct {
	Name         string            `json:"name"`
	PlanType     uint32            `json:"planType"`
	PresetID     uint32            `json:"presetId"`
	PresetState  uint32            `json:"presetState"`
	SiriEngineID uint32            `json:"siriEngineId"`
	RuleType     uint32            `json:"type"`
	Desc         string            `json:"desc"`
	ExecRules    []json.RawMessage `json:"execRules"`
	GroupID      uint64            `json:"groupId"`
	GroupName    string            `json:"groupName"`
	IotRules     []OneClickIotRule `json:"iotRules"`
}

// OneClickIotRule pairs a target device with the IoT messages a shortcut
// publishes to it.
type OneClickIotRule struct {
	DeviceObj OneClickIotRuleDevice  `json:"deviceObj"`
	Rule      []OneClickIotRuleEntry `json:"rule"`
}

// OneClickIotRuleEntry is one message a shortcut publishes; its blueMsg,
// cmdVal and iotMsg fields are JSON strings on the wire and are
// transparently re-parsed on decode.
type OneClickIotRuleEntry struct {
	BlueMsg    json.RawMessage          `json:"blueMsg"`
	CmdType    uint64                   `json:"cmdType"`
	CmdVal     OneClickIotRuleEntryCmd  `json:"cmdVal"`
	DeviceType uint32                   `json:"deviceType"`
	IotMsg     json.RawMessage          `json:"iotMsg"`
}

type oneClickIotRuleEntryWire struct {
	BlueMsg    string `json:"blueMsg"`
	CmdType    uint64 `json:"cmdType"`
	CmdVal     string `json:"cmdVal"`
	DeviceType uint32 `json:"deviceType"`
	IotMsg     string `json:"iotMsg"`
}

func (e *OneClickIotRuleEntry) UnmarshalJSON(data []byte) error {
	var wire oneClickIotRuleEntryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.CmdType = wire.CmdType
	e.DeviceType = wire.DeviceType
	if wire.BlueMsg != "" {
		if err := json.Unmarshal([]byte(wire.BlueMsg), &e.BlueMsg); err != nil {
			return fmt.Errorf("undoc: decoding blueMsg: %w", err)
		}
	}
	if wire.IotMsg != "" {
		if err := json.Unmarshal([]byte(wire.IotMsg), &e.IotMsg); err != nil {
			return fmt.Errorf("undoc: decoding iotMsg: %w", err)
		}
	}
	if err := unmarshalEmbedded(wire.CmdVal, &e.CmdVal); err != nil {
		return err
	}
	return nil
}

// OneClickIotRuleEntryCmd is the parsed content of an entry's cmdVal field.
type OneClickIotRuleEntryCmd struct {
	Open          *uint32 `json:"open"`
	ScenesCode    *uint16 `json:"scenesCode"`
	ScenceID      *uint16 `json:"scenceId"`
	ScenesStr     *string `json:"scenesStr"`
	ScenceParamID *uint16 `json:"scenceParamId"`
}

// OneClickIotRuleDevice identifies the device a one-click rule targets.
type OneClickIotRuleDevice struct {
	Name                 string          `json:"name"`
	Device               string          `json:"device"`
	SKU                  string          `json:"sku"`
	Topic                string          `json:"topic"`
	BleAddress           string          `json:"bleAddress"`
	BleName              string          `json:"bleName"`
	DeviceSplicingStatus uint32          `json:"deviceSplicingStatus"`
	FeastID              uint64          `json:"feastId"`
	FeastName            string          `json:"feastName"`
	FeastType            uint64          `json:"feastType"`
	GoodsType            uint64          `json:"goodsType"`
	IC                   *uint32         `json:"ic"`
	ICSub1               *uint32         `json:"ic_sub_1"`
	ICSub2               *uint32         `json:"ic_sub_2"`
	IsFeast              bool            `json:"-"`
	PactType             uint32          `json:"pactType"`
	PactCode             uint32          `json:"pactCode"`
	Settings             json.RawMessage `json:"settings"`
	Spec                 string          `json:"spec"`
	SubDevice            string          `json:"subDevice"`
	SubDeviceNum         uint64          `json:"subDeviceNum"`
	SubDevices           json.RawMessage `json:"subDevices"`
	VersionHard          string          `json:"versionHard"`
	VersionSoft          string          `json:"versionSoft"`
	WifiSoftVersion      string          `json:"wifiSoftVersion"`
	WifiHardVersion      string          `json:"wifiHardVersion"`
}

type oneClickIotRuleDeviceWire struct {
	Name                 string          `json:"name"`
	Device               string          `json:"device"`
	SKU                  string          `json:"sku"`
	Topic                string          `json:"topic"`
	BleAddress           string          `json:"bleAddress"`
	BleName              string          `json:"bleName"`
	DeviceSplicingStatus uint32          `json:"deviceSplicingStatus"`
	FeastID              uint64          `json:"feastId"`
	FeastName            string          `json:"feastName"`
	FeastType            uint64          `json:"feastType"`
	GoodsType            uint64          `json:"goodsType"`
	IC                   *uint32         `json:"ic"`
	ICSub1               *uint32         `json:"ic_sub_1"`
	ICSub2               *uint32         `json:"ic_sub_2"`
	IsFeast              intBool         `json:"isFeast"`
	PactType             uint32          `json:"pactType"`
	PactCode             uint32          `json:"pactCode"`
	Settings             json.RawMessage `json:"settings"`
	Spec                 string          `json:"spec"`
	SubDevice            string          `json:"subDevice"`
	SubDeviceNum         uint64          `json:"subDeviceNum"`
	SubDevices           json.RawMessage `json:"subDevices"`
	VersionHard          string          `json:"versionHard"`
	VersionSoft          string          `json:"versionSoft"`
	WifiSoftVersion      string          `json:"wifiSoftVersion"`
	WifiHardVersion      string          `json:"wifiHardVersion"`
}

func (d *OneClickIotRuleDevice) UnmarshalJSON(data []byte) error {
	var wire oneClickIotRuleDeviceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = OneClickIotRuleDevice{
		Name: wire.Name, Device: wire.Device, SKU: wire.SKU, Topic: wire.Topic,
		BleAddress: wire.BleAddress, BleName: wire.BleName,
		DeviceSplicingStatus: wire.DeviceSplicingStatus,
		FeastID:              wire.FeastID, FeastName: wire.FeastName, FeastType: wire.FeastType,
		GoodsType: wire.GoodsType, IC: wire.IC, ICSub1: wire.ICSub1, ICSub2: wire.ICSub2,
		IsFeast: bool(wire.IsFeast), PactType: wire.PactType, PactCode: wire.PactCode,
		Settings: wire.Settings, Spec: wire.Spec, SubDevice: wire.SubDevice,
		SubDeviceNum: wire.SubDeviceNum, SubDevices: wire.SubDevices,
		VersionHard: wire.VersionHard, VersionSoft: wire.VersionSoft,
		WifiSoftVersion: wire.WifiSoftVersion, WifiHardVersion: wire.WifiHardVersion,
	}
	return nil
}
