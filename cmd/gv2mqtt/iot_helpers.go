package main

import (
	"context"
	"fmt"

	"github.com/nerrad567/gv2mqtt/internal/govee/iot"
	"github.com/nerrad567/gv2mqtt/internal/govee/undoc"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/config"
	"github.com/nerrad567/gv2mqtt/internal/infrastructure/logging"
)

// fetchParsedOneClicks logs into the community API and reduces every saved
// shortcut to the IoT messages ActivateOneClick can replay.
func fetchParsedOneClicks(ctx context.Context, client *undoc.Client) ([]iot.ParsedOneClick, error) {
	token, err := client.LoginCommunity(ctx)
	if err != nil {
		return nil, fmt.Errorf("logging into community API: %w", err)
	}
	shortcuts, err := client.GetSavedOneClickShortcuts(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetching one-click shortcuts: %w", err)
	}

	items := make([]iot.ParsedOneClick, 0, len(shortcuts))
	for _, shortcut := range shortcuts {
		items = append(items, iot.ParseOneClick(shortcut))
	}
	return items, nil
}

// oneClickActivator satisfies hass.OneClickActivator by re-fetching the
// saved shortcut list on every call and replaying the matching one over an
// already-connected AWS IoT client.
type oneClickActivator struct {
	undoc *undoc.Client
	iot   *iot.Client
}

func (a oneClickActivator) ActivateOneClickByName(ctx context.Context, name string) error {
	items, err := fetchParsedOneClicks(ctx, a.undoc)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Name == name {
			return a.iot.ActivateOneClick(items[i])
		}
	}
	return fmt.Errorf("no saved one-click shortcut named %q", name)
}

// connectIoT logs into the account API, extracts the AWS IoT client
// certificate, and dials the account's IoT endpoint, dispatching parsed
// status packets to sink.
func connectIoT(ctx context.Context, cfg *config.Config, client *undoc.Client, sink iot.StateSink) (*iot.Client, error) {
	account, err := client.LoginAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("logging into account API: %w", err)
	}

	key, err := client.GetIotKey(ctx, account.Token)
	if err != nil {
		return nil, fmt.Errorf("fetching IoT credentials: %w", err)
	}

	creds, err := iot.ExtractCredentials(key.P12, key.P12Pass)
	if err != nil {
		return nil, fmt.Errorf("extracting IoT client certificate: %w", err)
	}
	if err := creds.WriteFiles(cfg.Undoc.IoTCertPath, cfg.Undoc.IoTKeyPath); err != nil {
		return nil, fmt.Errorf("writing IoT client certificate: %w", err)
	}

	iotClient, err := iot.Connect(iot.Config{
		Endpoint:     key.Endpoint,
		AccountID:    account.AccountID,
		AccountTopic: account.Topic,
		RootCAPath:   cfg.Undoc.AmazonRootCA,
		CertPath:     cfg.Undoc.IoTCertPath,
		KeyPath:      cfg.Undoc.IoTKeyPath,
	}, sink, logging.Default())
	if err != nil {
		return nil, fmt.Errorf("connecting to AWS IoT: %w", err)
	}
	return iotClient, nil
}
