package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gv2mqtt/internal/cache"
	"github.com/nerrad567/gv2mqtt/internal/devicedb"
	"github.com/nerrad567/gv2mqtt/internal/govee/iot"
	"github.com/nerrad567/gv2mqtt/internal/govee/lan"
	"github.com/nerrad567/gv2mqtt/internal/govee/platform"
	"github.com/nerrad567/gv2mqtt/internal/govee/undoc"
	"github.com/nerrad567/gv2mqtt/internal/hass"
	"github.com/nerrad567/gv2mqtt/internal/httpapi"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/logging"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/mqtt"
	"github.com/nerrad567/gv2mqtt/internal/lockout"
	"github.com/nerrad567/gv2mqtt/internal/quirks"
	"github.com/nerrad567/gv2mqtt/internal/registry"
)

// sceneNamesTimeout bounds how long a discovery document's effect_list
// lookup is allowed to block on a Platform API round trip.
const sceneNamesTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bridge: discover devices and relay Home Assistant MQTT traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, httpAddr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8056", "address the diagnostic HTTP API listens on")
	return cmd
}

func runServe(ctx context.Context, httpAddr string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting gv2mqtt", "version", version, "commit", commit)

	store, err := openCacheStore(cfg)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	store.SetLogger(logger)
	defer store.Close()

	dbPath := cfg.Cache.DeviceDBPath
	if dbPath == "" {
		dbPath = "devices.json"
	}
	db, err := devicedb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening device database: %w", err)
	}
	mode := devicedb.DetectStartupMode(dbPath, filepath.Join(cfg.Cache.Dir, "cache.db"))
	logger.Info("device database opened", "path", dbPath, "devices", db.Len(), "startup_mode", int(mode))

	qtable := quirks.NewTable()
	if path := os.Getenv("GOVEE_QUIRKS_FILE"); path != "" {
		qtable, err = quirks.LoadTable(path)
		if err != nil {
			return fmt.Errorf("loading quirks override %s: %w", path, err)
		}
	}

	reg := registry.NewRegistry()
	reg.SetLogger(logger)

	var platformClient *platform.Client
	if cfg.Platform.APIKey != "" {
		platformClient = platform.NewClient(cfg.Platform.APIKey, store)
	}

	var undocClient *undoc.Client
	if cfg.Undoc.Email != "" && cfg.Undoc.Password != "" {
		undocClient = undoc.NewClient(cfg.Undoc.Email, cfg.Undoc.Password, store)
	}

	if err := populateFromClouds(ctx, reg, db, platformClient, undocClient); err != nil {
		logger.Warn("cloud device enrichment incomplete", "error", err)
	}

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	mqttClient.SetLogger(logger)
	defer mqttClient.Close()

	broker := &brokerAdapter{client: mqttClient}

	sceneNames := func(d *registry.Device) []string {
		if platformClient == nil || d.PlatformInfo == nil {
			return nil
		}
		sctx, cancel := context.WithTimeout(ctx, sceneNamesTimeout)
		defer cancel()
		names, err := platformClient.ListSceneNames(sctx, *d.PlatformInfo)
		if err != nil {
			logger.Warn("listing scene names failed", "device", d.ID, "error", err)
			return nil
		}
		return names
	}

	hassClient := hass.NewClient(broker, qtable, cfg.DiscoveryPrefix, sceneNames)
	hassClient.SetLogger(logger)
	if undocClient != nil {
		hassClient.SetOneClickNames(func() []string {
			octx, cancel := context.WithTimeout(ctx, sceneNamesTimeout)
			defer cancel()
			items, err := fetchParsedOneClicks(octx, undocClient)
			if err != nil {
				logger.Warn("listing one-click shortcuts failed", "error", err)
				return nil
			}
			names := make([]string, len(items))
			for i, item := range items {
				names[i] = item.Name
			}
			return names
		})
	}

	var platformControl hass.PlatformControl
	if platformClient != nil {
		platformControl = platformClient
	}
	var scenes hass.SceneCodeLookup
	if undocClient != nil {
		scenes = undocClient
	}

	loController := lockout.NewController(store)
	router := hass.NewRouter(reg, platformControl, scenes, loController)
	router.SetLogger(logger)
	if platformClient != nil {
		router.SetPlatformDataRequester(platformClient)
	}

	reg.SetNotifier(func(deviceID string) {
		d, ok := reg.DeviceByID(deviceID)
		if !ok {
			return
		}
		if err := hassClient.AdviseLightState(d); err != nil {
			logger.Warn("advising hass of device state failed", "device", deviceID, "error", err)
		}
	})

	var iotClient *iot.Client
	if undocClient != nil {
		iotClient, err = connectIoT(ctx, cfg, undocClient, reg)
		if err != nil {
			logger.Warn("AWS IoT connection unavailable, falling back to LAN/Platform control", "error", err)
		} else {
			defer iotClient.Close()
			router.SetOneClickActivator(oneClickActivator{undoc: undocClient, iot: iotClient})
		}
	}
	router.SetCachePurger(store)

	lanOpts, err := buildLANOptions(cfg.LAN)
	if err != nil {
		return fmt.Errorf("building LAN discovery options: %w", err)
	}
	lanClient, discovered, err := lan.NewClient(ctx, lanOpts, logger)
	if err != nil {
		return fmt.Errorf("starting LAN discovery: %w", err)
	}
	go consumeLANDiscovery(ctx, lanClient, discovered, reg, db, logger)

	httpServer := httpapi.New(httpAddr, reg)
	httpServer.SetLogger(logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("starting http api: %w", err)
	}
	defer httpServer.Close()

	if err := mqttClient.Subscribe("gv2mqtt/#", byte(cfg.MQTT.QoS), dispatchHandler(router, logger)); err != nil {
		return fmt.Errorf("subscribing to command topics: %w", err)
	}
	if err := mqttClient.Subscribe(hass.StatusTopic(cfg.DiscoveryPrefix), byte(cfg.MQTT.QoS), statusHandler(reg, hassClient, logger)); err != nil {
		return fmt.Errorf("subscribing to hass status topic: %w", err)
	}

	if err := hassClient.RegisterWithHass(reg.ListDevices()); err != nil {
		logger.Warn("initial hass registration failed", "error", err)
	}

	logger.Info("gv2mqtt ready")
	<-ctx.Done()
	logger.Info("shutdown signal received, cleaning up")

	if err := db.Save(); err != nil {
		logger.Error("saving device database failed", "error", err)
	}

	return nil
}

// brokerAdapter satisfies hass.Broker by forwarding to the infrastructure
// MQTT client, whose Subscribe takes a named handler type rather than the
// bare function type hass.Broker declares.
type brokerAdapter struct {
	client *mqtt.Client
}

func (b *brokerAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return b.client.Publish(topic, payload, qos, retained)
}

func (b *brokerAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error {
	return b.client.Subscribe(topic, qos, handler)
}

// dispatchHandler adapts Router.Dispatch to an MQTT message handler.
func dispatchHandler(router *hass.Router, logger *logging.Logger) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		if err := router.Dispatch(context.Background(), topic, payload); err != nil {
			logger.Warn("command dispatch failed", "topic", topic, "error", err)
		}
		return nil
	}
}

// statusHandler re-publishes every device's discovery documents when Home
// Assistant announces it has (re)started, matching the teacher's birth/LWT
// handling for the bridge's own entities.
func statusHandler(reg *registry.Registry, hassClient *hass.Client, logger *logging.Logger) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		if string(payload) != "online" {
			return nil
		}
		logger.Info("home assistant restart detected, re-registering devices")
		if err := hassClient.RegisterWithHass(reg.ListDevices()); err != nil {
			logger.Warn("re-registration failed", "error", err)
		}
		return nil
	}
}

// populateFromClouds queries the Platform and undocumented-cloud APIs (as
// configured) for the account's device list, merging names and room
// assignments into both the registry and the persistent device database.
func populateFromClouds(ctx context.Context, reg *registry.Registry, db *devicedb.Handle, platformClient *platform.Client, undocClient *undoc.Client) error {
	if platformClient != nil {
		devices, err := platformClient.ListDevices(ctx)
		if err != nil {
			return fmt.Errorf("listing platform devices: %w", err)
		}
		for _, info := range devices {
			d := reg.Upsert(info.SKU, info.Device)
			reg.SetGoveeName(d.ID, info.DeviceName)
			reg.SetPlatformInfo(d.ID, info)
			db.UpdateFromAPI(d.ID, info.SKU, info.DeviceName, "", devicedb.SourcePlatformAPI)
		}
	}

	if undocClient != nil {
		account, err := undocClient.LoginAccount(ctx)
		if err != nil {
			return fmt.Errorf("logging into undocumented API: %w", err)
		}
		list, err := undocClient.GetDeviceList(ctx, account.Token)
		if err != nil {
			return fmt.Errorf("fetching undocumented device list: %w", err)
		}
		groupNames := make(map[uint64]string, len(list.Groups))
		for _, g := range list.Groups {
			groupNames[g.GroupID] = g.GroupName
		}
		for _, entry := range list.Devices {
			d := reg.Upsert(entry.SKU, entry.Device)
			room := groupNames[entry.GroupID]
			reg.SetRoom(d.ID, room)
			db.UpdateFromAPI(d.ID, entry.SKU, d.Name(), room, devicedb.SourceUndocAPI)
		}
	}

	return nil
}

// consumeLANDiscovery merges every LAN-discovered device and its queried
// status into the registry for as long as ctx remains alive.
func consumeLANDiscovery(ctx context.Context, client *lan.Client, discovered <-chan lan.LanDevice, reg *registry.Registry, db *devicedb.Handle, logger *logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case device, ok := <-discovered:
			if !ok {
				return
			}
			d := reg.Upsert(device.SKU, device.Device)
			reg.SetIPAddr(d.ID, device.IP)
			reg.SetLanDevice(d.ID, device)
			if d.GoveeName == "" {
				reg.SetGoveeName(d.ID, db.HandleLANDiscovery(d.ID, device.SKU))
			}

			status, err := client.QueryStatus(ctx, device)
			if err != nil {
				logger.Warn("querying LAN device status failed", "device", d.ID, "error", err)
				continue
			}
			reg.SetLanStatus(d.ID, status)
			reg.NotifyStateChange(d.ID)
		}
	}
}
