package vector

import (
	"strings"
	"testing"

	"github.com/gogpu/sprite"
)

func TestParsePaint(t *testing.T) {
	tests := []struct {
		in          string
		want        sprite.Color
		wantPainted bool
		wantErr     bool
	}{
		{"", sprite.Transparent, false, false},
		{"none", sprite.Transparent, false, false},
		{"#ff0000", sprite.RGB(1, 0, 0), true, false},
		{"#00ff00", sprite.RGB(0, 1, 0), true, false},
		{"#fff", sprite.RGB(1, 1, 1), true, false},
		{"#00000080", sprite.RGBA(0, 0, 0, float32(0x80) / 255), true, false},
		{"red", sprite.Transparent, false, true},
		{"#12345", sprite.Transparent, false, true},
		{"#gggggg", sprite.Transparent, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, painted, err := ParsePaint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePaint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if painted != tt.wantPainted {
				t.Errorf("painted = %v, want %v", painted, tt.wantPainted)
			}
			if c != tt.want {
				t.Errorf("color = %v, want %v", c, tt.want)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	a, err := Compile(AssetDef{
		Width: 100, Height: 50,
		Segments: []SegmentDef{
			{Geometry: "M 0 0 L 100 0 L 100 50 Z", Fill: "#336699"},
			{Geometry: "M 10 10 L 90 40", Stroke: "#ffffff", StrokeWidth: 2, Opacity: 0.5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(a.Segments))
	}
	if !a.Segments[0].HasFill || a.Segments[0].HasStroke {
		t.Error("first segment should be fill-only")
	}
	if a.Segments[0].Opacity != 1 {
		t.Errorf("default segment opacity = %g, want 1", a.Segments[0].Opacity)
	}
	if a.Segments[1].HasFill || !a.Segments[1].HasStroke {
		t.Error("second segment should be stroke-only")
	}
	if a.Segments[1].Opacity != 0.5 {
		t.Errorf("segment opacity = %g, want 0.5", a.Segments[1].Opacity)
	}
	if !a.Segments[0].Transform.IsIdentity() {
		t.Error("nil transform should compile to identity")
	}
}

func TestCompileDefaultStrokeWidth(t *testing.T) {
	a, err := Compile(AssetDef{
		Width: 10, Height: 10,
		Segments: []SegmentDef{
			{Geometry: "M 0 5 L 10 5", Stroke: "#ffffff"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Segments[0].StrokeWidth; got != 1 {
		t.Errorf("unspecified stroke width = %g, want 1", got)
	}
}

func TestCompileDropsMalformedGeometry(t *testing.T) {
	a, err := Compile(AssetDef{
		Width: 10, Height: 10,
		Segments: []SegmentDef{
			{Geometry: "M 0 0 L 10 0 Z", Fill: "#f00"},
			{Geometry: "not a path", Fill: "#0f0"},
			{Geometry: "M 0 10 L 10 10", Stroke: "#00f", StrokeWidth: 1},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Segments) != 2 {
		t.Fatalf("segments = %d, want 2 (malformed one dropped)", len(a.Segments))
	}
	if !a.Segments[0].HasFill || !a.Segments[1].HasStroke {
		t.Error("surviving segments out of order")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		def     AssetDef
		wantSub string
	}{
		{
			"zero size",
			AssetDef{Width: 0, Height: 10},
			"must be positive",
		},
		{
			"bad fill",
			AssetDef{Width: 10, Height: 10, Segments: []SegmentDef{
				{Geometry: "M 0 0 L 1 1", Fill: "blue"},
			}},
			"fill",
		},
		{
			"negative stroke width",
			AssetDef{Width: 10, Height: 10, Segments: []SegmentDef{
				{Geometry: "M 0 0 L 1 1", Stroke: "#fff", StrokeWidth: -2},
			}},
			"stroke width",
		},
		{
			"opacity out of range",
			AssetDef{Width: 10, Height: 10, Segments: []SegmentDef{
				{Geometry: "M 0 0 L 1 1", Fill: "#fff", Opacity: 1.5},
			}},
			"opacity",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.def)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
