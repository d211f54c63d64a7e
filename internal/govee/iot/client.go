package iot

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	defaultPort           = 8883
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
)

// Logger is the small logging surface the client needs, compatible with
// both internal/infrastructure/logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Config describes how to reach a Govee account's AWS IoT Core endpoint.
type Config struct {
	// Endpoint is the account-specific AWS IoT hostname from get_iot_key.
	Endpoint string
	// AccountID and AccountTopic come from login_account.
	AccountID    uint64
	AccountTopic string

	// RootCAPath is the Amazon root CA certificate bundle.
	RootCAPath string
	// CertPath and KeyPath are the PEM files ExtractCredentials wrote.
	CertPath, KeyPath string
}

// Client is an MQTT session to AWS IoT Core, authenticated with a Govee
// account's extracted client certificate.
type Client struct {
	client pahomqtt.Client
	logger Logger
}

// Connect dials cfg's IoT endpoint over mutual TLS and subscribes to the
// account topic, dispatching parsed status packets to sink.
func Connect(cfg Config, sink StateSink, logger Logger) (*Client, error) {
	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientID := fmt.Sprintf("AP/%d/%s", cfg.AccountID, uuid.NewString())

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("ssl://%s:%d", cfg.Endpoint, defaultPort))
	opts.SetClientID(clientID)
	opts.SetTLSConfig(tlsConfig)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetAutoReconnect(true)

	c := &Client{logger: logger}
	opts.SetDefaultPublishHandler(func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.handleMessage(sink, msg.Payload())
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	subToken := client.Subscribe(cfg.AccountTopic, 0, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.handleMessage(sink, msg.Payload())
	})
	if !subToken.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: subscribe timeout", ErrConnectFailed)
	}
	if err := subToken.Error(); err != nil {
		return nil, fmt.Errorf("%w: subscribing to %s: %w", ErrConnectFailed, cfg.AccountTopic, err)
	}

	c.client = client
	return c, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertPath, cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("iot: loading client certificate: %w", err)
	}

	rootPEM, err := os.ReadFile(cfg.RootCAPath)
	if err != nil {
		return nil, fmt.Errorf("iot: reading root CA at %s: %w", cfg.RootCAPath, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(rootPEM) {
		return nil, fmt.Errorf("iot: no certificates parsed from %s", cfg.RootCAPath)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
	}, nil
}

func (c *Client) handleMessage(sink StateSink, payload []byte) {
	sku, device, update, err := parsePacket(payload)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("iot: discarding unparseable status packet", "error", err)
		}
		return
	}
	sink.MergeIotStatus(sku, device, update)
	sink.NotifyStateChange(device)
}

// RequestStatusUpdate publishes a status-read request to a device's own
// topic (not the account topic), nudging it to report a fresh state.
func (c *Client) RequestStatusUpdate(deviceTopic string) error {
	if c.client == nil || !c.client.IsConnected() {
		return ErrNotConnected
	}
	transaction := fmt.Sprintf("v_%d000", time.Now().UnixMilli())
	payload := fmt.Sprintf(
		`{"msg":{"cmd":"status","cmdVersion":2,"transaction":%q,"type":0}}`,
		transaction,
	)
	token := c.client.Publish(deviceTopic, 0, false, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("iot: publish to %s timed out", deviceTopic)
	}
	return token.Error()
}

// ActivateOneClick replays every IoT message a one-click shortcut carries,
// publishing each to its target device's topic.
func (c *Client) ActivateOneClick(item ParsedOneClick) error {
	if c.client == nil || !c.client.IsConnected() {
		return ErrNotConnected
	}
	for _, entry := range item.Entries {
		for _, msg := range entry.Messages {
			token := c.client.Publish(entry.Topic, 0, false, []byte(msg))
			if !token.WaitTimeout(defaultPublishTimeout) {
				return fmt.Errorf("iot: publish to %s timed out", entry.Topic)
			}
			if err := token.Error(); err != nil {
				return fmt.Errorf("iot: publishing one-click message to %s: %w", entry.Topic, err)
			}
		}
	}
	return nil
}

// Close disconnects from AWS IoT Core.
func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}
