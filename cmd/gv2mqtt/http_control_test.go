package main

import "testing"

func TestHTTPControlCmd_RequiresIDFlag(t *testing.T) {
	cmd := newHTTPControlCmd()
	cmd.SetArgs([]string{"on"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("http-control should fail when --id is not set")
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := parseHexColor("ff00aa")
	if err != nil {
		t.Fatalf("parseHexColor() error = %v", err)
	}
	if r != 0xff || g != 0x00 || b != 0xaa {
		t.Errorf("parseHexColor(\"ff00aa\") = %d,%d,%d, want 255,0,170", r, g, b)
	}
}

func TestParseHexColor_WrongLength(t *testing.T) {
	if _, _, _, err := parseHexColor("fff"); err == nil {
		t.Fatal("parseHexColor(\"fff\") should fail, only 6-digit RRGGBB is accepted")
	}
}

func TestParseHexColor_NotHex(t *testing.T) {
	if _, _, _, err := parseHexColor("zzzzzz"); err == nil {
		t.Fatal("parseHexColor(\"zzzzzz\") should fail on non-hex input")
	}
}
