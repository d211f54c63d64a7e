package undoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/nerrad567/gv2mqtt/internal/cache"
)

const (
	appVersion = "5.6.01"

	cacheTopic = "undoc-api"
	oneDay     = 24 * time.Hour
	oneWeek    = 7 * 24 * time.Hour
)

// These are vars, not consts, so tests can redirect them at a local
// httptest.Server instead of reaching the real Govee backends.
var (
	loginAccountURL   = "https://app2.govee.com/account/rest/account/v1/login"
	loginCommunityURL = "https://community-api.govee.com/os/v1/login"
	deviceListURL     = "https://app2.govee.com/device/rest/devices/v1/list"
	iotKeyURL         = "https://app2.govee.com/app/v1/account/iot/key"
	sceneLibraryURL   = "https://app2.govee.com/appsku/v1/light-effect-libraries"
	oneClickURL       = "https://app2.govee.com/bff-app/v1/exec-plat/home"
)

func userAgent() string {
	return fmt.Sprintf("GoveeHome/%s (com.ihoment.GoVeeSensor; build:2; iOS 16.5.0) Alamofire/5.6.4", appVersion)
}

func msTimestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Client is a Govee undocumented app/community API client, authenticated by
// account email/password rather than an issued API key.
type Client struct {
	email    string
	password string
	clientID string
	http     *retryablehttp.Client
	cache    *cache.Store
}

// NewClient builds a Client. clientID is a deterministic UUIDv5 over email,
// matching the value the Govee Home app itself derives so repeated logins
// from this bridge look like the same installed app to Govee's backend.
func NewClient(email, password string, store *cache.Store) *Client {
	id := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(email))
	clientID := strings.ReplaceAll(id.String(), "-", "")

	h := retryablehttp.NewClient()
	h.RetryMax = 3
	h.Logger = nil
	h.HTTPClient.Timeout = 60 * time.Second

	return &Client{email: email, password: password, clientID: clientID, http: h, cache: store}
}

// ClientID returns the deterministic UUIDv5 this client presents as its
// clientId header on app2.govee.com calls.
func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) appHeaders(req *retryablehttp.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("appVersion", appVersion)
	req.Header.Set("clientId", c.clientID)
	req.Header.Set("clientType", "1")
	req.Header.Set("iotVersion", "0")
	req.Header.Set("timestamp", msTimestamp())
	req.Header.Set("User-Agent", userAgent())
}

func (c *Client) do(ctx context.Context, method, url string, body any, headers func(*retryablehttp.Request), out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("undoc: encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("undoc: building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if headers != nil {
		headers(req)
	} else {
		req.Header.Set("User-Agent", userAgent())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("undoc: request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("undoc: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("undoc: request status %d: %s. Response body: %s",
			resp.StatusCode, http.StatusText(resp.StatusCode), string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("undoc: parsing response as json: %s: %w", string(data), err)
	}
	return nil
}

type loginAccountEnvelope struct {
	Client  LoginAccountResponse `json:"client"`
	Message string               `json:"message"`
	Status  uint64               `json:"status"`
}

// LoginAccount authenticates against app2.govee.com, cached for 1 day.
func (c *Client) LoginAccount(ctx context.Context) (LoginAccountResponse, error) {
	data, err := c.cache.GetOrCompute(ctx, cache.Options{
		Topic:       cacheTopic,
		Key:         "account-info",
		SoftTTL:     oneDay,
		HardTTL:     oneWeek,
		NegativeTTL: 10 * time.Second,
	}, func(ctx context.Context) ([]byte, error) {
		reqBody := map[string]string{
			"email":    c.email,
			"password": c.password,
			"client":   c.clientID,
		}
		var resp loginAccountEnvelope
		if err := c.do(ctx, http.MethodPost, loginAccountURL, reqBody, nil, &resp); err != nil {
			return nil, err
		}
		return json.Marshal(resp.Client)
	})
	if err != nil {
		return LoginAccountResponse{}, err
	}
	var account LoginAccountResponse
	if err := json.Unmarshal(data, &account); err != nil {
		return LoginAccountResponse{}, fmt.Errorf("undoc: decoding cached account: %w", err)
	}
	return account, nil
}

type loginCommunityEnvelope struct {
	Data struct {
		Email     string `json:"email"`
		ExpiredAt uint64 `json:"expiredAt"`
		HeaderURL string `json:"headerUrl"`
		ID        uint64 `json:"id"`
		NickName  string `json:"nickName"`
		Token     string `json:"token"`
	} `json:"data"`
	Message string `json:"message"`
	Status  uint64 `json:"status"`
}

// LoginCommunity authenticates against community-api.govee.com and returns
// a bearer token. Not cached: community tokens are short-lived.
func (c *Client) LoginCommunity(ctx context.Context) (string, error) {
	reqBody := map[string]string{"email": c.email, "password": c.password}
	var resp loginCommunityEnvelope
	if err := c.do(ctx, http.MethodPost, loginCommunityURL, reqBody, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Token, nil
}

type iotKeyEnvelope struct {
	Data    IotKey `json:"data"`
	Message string `json:"message"`
	Status  uint64 `json:"status"`
}

// GetIotKey retrieves the AWS IoT credential bundle for the account,
// cached for 1 day (the PFX bundle is reused across bridge restarts).
func (c *Client) GetIotKey(ctx context.Context, token string) (IotKey, error) {
	data, err := c.cache.GetOrCompute(ctx, cache.Options{
		Topic:       cacheTopic,
		Key:         "iot-key",
		SoftTTL:     oneDay,
		HardTTL:     oneWeek,
		NegativeTTL: 10 * time.Second,
	}, func(ctx context.Context) ([]byte, error) {
		var resp iotKeyEnvelope
		headers := func(req *retryablehttp.Request) { c.appHeaders(req, token) }
		if err := c.do(ctx, http.MethodGet, iotKeyURL, nil, headers, &resp); err != nil {
			return nil, err
		}
		return json.Marshal(resp.Data)
	})
	if err != nil {
		return IotKey{}, err
	}
	var key IotKey
	if err := json.Unmarshal(data, &key); err != nil {
		return IotKey{}, fmt.Errorf("undoc: decoding cached iot key: %w", err)
	}
	return key, nil
}

// GetDeviceList returns the account's devices and groups. Not cached: the
// Platform API's cached list_devices (4.E) is the primary source; this
// exists to surface devices/metadata the Platform API omits.
func (c *Client) GetDeviceList(ctx context.Context, token string) (DevicesResponse, error) {
	var resp DevicesResponse
	headers := func(req *retryablehttp.Request) { c.appHeaders(req, token) }
	if err := c.do(ctx, http.MethodPost, deviceListURL, nil, headers, &resp); err != nil {
		return DevicesResponse{}, err
	}
	return resp, nil
}

// GetScenesForDevice returns sku's full scene library, cached for 1 day.
func (c *Client) GetScenesForDevice(ctx context.Context, sku string) ([]LightEffectCategory, error) {
	key := fmt.Sprintf("scenes-%s", sku)
	data, err := c.cache.GetOrCompute(ctx, cache.Options{
		Topic:       cacheTopic,
		Key:         key,
		SoftTTL:     oneDay,
		HardTTL:     oneWeek,
		NegativeTTL: time.Second,
	}, func(ctx context.Context) ([]byte, error) {
		url := fmt.Sprintf("%s?sku=%s", sceneLibraryURL, sku)
		headers := func(req *retryablehttp.Request) {
			req.Header.Set("AppVersion", appVersion)
			req.Header.Set("User-Agent", userAgent())
		}
		var resp LightEffectLibraryResponse
		if err := c.do(ctx, http.MethodGet, url, nil, headers, &resp); err != nil {
			return nil, err
		}
		return json.Marshal(resp.Data.Categories)
	})
	if err != nil {
		return nil, err
	}
	var categories []LightEffectCategory
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("undoc: decoding cached scene library: %w", err)
	}
	return categories, nil
}

// GetSavedOneClickShortcuts returns the account's saved one-click
// automations. Not cached: these can be edited in the app at any time.
func (c *Client) GetSavedOneClickShortcuts(ctx context.Context, communityToken string) ([]OneClickComponent, error) {
	var resp OneClickResponse
	headers := func(req *retryablehttp.Request) { c.appHeaders(req, communityToken) }
	if err := c.do(ctx, http.MethodGet, oneClickURL, nil, headers, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Components, nil
}
