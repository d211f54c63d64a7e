package lan

import (
	"encoding/json"
	"testing"
)

func TestRequestEncoding(t *testing.T) {
	tests := []struct {
		name string
		req  request
		want string
	}{
		{"scan", newScanRequest(), `{"msg":{"cmd":"scan","data":{"account_topic":"reserve"}}}`},
		{"devStatus", newDevStatusRequest(), `{"msg":{"cmd":"devStatus","data":{}}}`},
		{"turnOn", newTurnRequest(true), `{"msg":{"cmd":"turn","data":{"value":1}}}`},
		{"turnOff", newTurnRequest(false), `{"msg":{"cmd":"turn","data":{"value":0}}}`},
		{"brightness", newBrightnessRequest(50), `{"msg":{"cmd":"brightness","data":{"value":50}}}`},
		{"color", newColorRequest(DeviceColor{R: 1, G: 2, B: 3}, 4000),
			`{"msg":{"cmd":"colorwc","data":{"color":{"r":1,"g":2,"b":3},"colorTemInKelvin":4000}}}`},
		{"ptReal", newPtRealRequest([]string{"AA=="}), `{"msg":{"cmd":"ptReal","data":{"command":["AA=="]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.req)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestParseScanResponse(t *testing.T) {
	data := []byte(`{"msg":{"cmd":"scan","data":{"ip":"192.168.1.50","device":"AA:BB","sku":"H6072","bleVersionHard":"1","bleVersionSoft":"2","wifiVersionHard":"3","wifiVersionSoft":"4"}}}`)
	r, err := parseResponse(data)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if r.Kind != "scan" {
		t.Fatalf("Kind = %q, want scan", r.Kind)
	}
	if r.Scan.IP != "192.168.1.50" || r.Scan.SKU != "H6072" {
		t.Errorf("Scan = %+v", r.Scan)
	}
}

func TestParseScanResponseMissingIP(t *testing.T) {
	data := []byte(`{"msg":{"cmd":"scan","data":{"device":"AA:BB","sku":"H6072","bleVersionHard":"1","bleVersionSoft":"2","wifiVersionHard":"3","wifiVersionSoft":"4"}}}`)
	r, err := parseResponse(data)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if r.Scan.IP != "" {
		t.Errorf("Scan.IP = %q, want empty (caller fills from source addr)", r.Scan.IP)
	}
}

func TestParseDevStatusResponse(t *testing.T) {
	tests := []struct {
		name   string
		onOff  string
		wantOn bool
	}{
		{"bool true", `true`, true},
		{"bool false", `false`, false},
		{"number one", `1`, true},
		{"number zero", `0`, false},
		{"null", `null`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"msg":{"cmd":"devStatus","data":{"onOff":` + tt.onOff + `,"brightness":80,"color":{"r":10,"g":20,"b":30},"colorTemInKelvin":3000}}}`)
			r, err := parseResponse(data)
			if err != nil {
				t.Fatalf("parseResponse() error = %v", err)
			}
			if r.Kind != "devStatus" {
				t.Fatalf("Kind = %q, want devStatus", r.Kind)
			}
			if r.Status.On != tt.wantOn {
				t.Errorf("On = %v, want %v", r.Status.On, tt.wantOn)
			}
			if r.Status.Brightness != 80 {
				t.Errorf("Brightness = %d, want 80", r.Status.Brightness)
			}
			if r.Status.Color != (DeviceColor{R: 10, G: 20, B: 30}) {
				t.Errorf("Color = %+v", r.Status.Color)
			}
		})
	}
}
