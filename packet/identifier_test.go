package packet

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseIdentifier(t *testing.T) {
	tcs := []struct {
		desc      string
		in        string
		namespace string
		path      string
		expectErr bool
	}{
		{desc: "Full", in: "minecraft:stone", namespace: "minecraft", path: "stone"},
		{desc: "Custom namespace", in: "mymod:items/gear_1", namespace: "mymod", path: "items/gear_1"},
		{desc: "No colon", in: "brand", namespace: "minecraft", path: "brand"},
		{desc: "Empty namespace", in: ":brand", namespace: "minecraft", path: "brand"},
		{desc: "Only first colon splits", in: "a:b:c", expectErr: true},
		{desc: "Upper case", in: "Minecraft:stone", expectErr: true},
		{desc: "Slash in namespace", in: "my/mod:x", expectErr: true},
		{desc: "Space in path", in: "minecraft:bad path", expectErr: true},
		{desc: "Dots and dashes", in: "a.b-c:d.e-f", namespace: "a.b-c", path: "d.e-f"},
	}

	for _, tC := range tcs {
		t.Run(tC.desc, func(t *testing.T) {
			id, err := ParseIdentifier(tC.in)
			if tC.expectErr {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Fatalf("expected ErrInvalidIdentifier, got %v (%s)", err, id)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIdentifier failed: %v", err)
			}

			if id.Namespace() != tC.namespace || id.Path() != tC.path {
				t.Errorf("expected %s:%s, got %s:%s", tC.namespace, tC.path, id.Namespace(), id.Path())
			}
			if id.String() != tC.namespace+":"+tC.path {
				t.Errorf("String() expected %s:%s, got %s", tC.namespace, tC.path, id)
			}
		})
	}
}

func TestIdentifierZeroValue(t *testing.T) {
	var id Identifier
	if id.String() != "minecraft:" {
		t.Errorf("zero Identifier should render in the default namespace, got %q", id.String())
	}
}

func TestIdentifierWire(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteIdentifier(buf, MustParseIdentifier("brand")); err != nil {
		t.Fatalf("WriteIdentifier failed: %v", err)
	}

	want := append([]byte{15}, "minecraft:brand"...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteIdentifier expected %x, got %x", want, buf.Bytes())
	}

	r := NewFrameReader(want)
	id, err := ReadIdentifier(&r)
	if err != nil {
		t.Fatalf("ReadIdentifier failed: %v", err)
	}
	if id != MustParseIdentifier("minecraft:brand") {
		t.Errorf("ReadIdentifier got %s", id)
	}

	bad := append([]byte{3}, "A:b"...)
	r = NewFrameReader(bad)
	if _, err := ReadIdentifier(&r); !IsMalformed(err) || !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("expected a malformed invalid identifier error, got %v", err)
	}
}
