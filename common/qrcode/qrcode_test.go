package qrcode

import (
	"bytes"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestTicketQRPNG(t *testing.T) {
	png, err := TicketQRPNG("TKT-2026-0001", SizeStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestTicketQRPNGEmptyCode(t *testing.T) {
	if _, err := TicketQRPNG("", SizeStandard); err == nil {
		t.Error("empty ticket code should fail")
	}
}

func TestTicketQRDataURI(t *testing.T) {
	uri, err := TicketQRDataURI("TKT-2026-0001", 0) // 0 falls back to standard size
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("unexpected prefix: %.40s", uri)
	}
}
