package guid

import (
	"testing"
	"unsafe"
)

func TestParse(t *testing.T) {
	g, err := Parse("{AF86E2E0-B12D-4C6A-9C5A-D7AA65101E90}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := GUID{
		Data1: 0xaf86e2e0,
		Data2: 0xb12d,
		Data3: 0x4c6a,
		Data4: [8]byte{0x9c, 0x5a, 0xd7, 0xaa, 0x65, 0x10, 0x1e, 0x90},
	}
	if g != want {
		t.Fatalf("Parse = %+v, want %+v", g, want)
	}
	if got := g.String(); got != "af86e2e0-b12d-4c6a-9c5a-d7aa65101e90" {
		t.Errorf("String() = %q", got)
	}
	if got := g.Braced(); got != "{af86e2e0-b12d-4c6a-9c5a-d7aa65101e90}" {
		t.Errorf("Braced() = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "{}", "af86e2e0", "zf86e2e0-b12d-4c6a-9c5a-d7aa65101e90", "urn:uuid:af86e2e0-b12d-4c6a-9c5a-d7aa65101e90"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestLayout(t *testing.T) {
	if unsafe.Sizeof(GUID{}) != 16 {
		t.Fatalf("GUID size = %d", unsafe.Sizeof(GUID{}))
	}
	if unsafe.Offsetof(GUID{}.Data4) != 8 {
		t.Fatalf("Data4 offset = %d", unsafe.Offsetof(GUID{}.Data4))
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	g := MustParse("5a648006-843a-4da9-865b-9d26e5dfad7b")
	if FromUUID(g.UUID()) != g {
		t.Fatal("UUID round trip changed value")
	}
}

func TestFromSignature(t *testing.T) {
	tests := []struct {
		sig  string
		want string
	}{
		{"pinterface({9fc2b0bb-e446-44e2-aa61-9cab8f636af2};string)", "3e1fe603-f897-5263-b328-0806426b8a79"},
		{"pinterface({9fc2b0bb-e446-44e2-aa61-9cab8f636af2};b1)", "cdb5efb3-5788-509d-9be1-71ccb8a3362a"},
		{"pinterface({913337e9-11a1-4345-a3a2-4e7f956e222d};string)", "98b9acc1-4b56-532e-ac73-03d5291cca90"},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			got := FromSignature(tt.sig)
			if got != MustParse(tt.want) {
				t.Errorf("FromSignature = %s, want %s", got, tt.want)
			}
			if v := got.UUID().Version(); v != 5 {
				t.Errorf("version = %d, want 5", v)
			}
		})
	}
}
