package vector

import (
	"reflect"
	"strings"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []PathElement
	}{
		{
			"absolute move line close",
			"M 0 0 L 10 0 L 10 10 Z",
			[]PathElement{
				MoveTo{Pt(0, 0)},
				LineTo{Pt(10, 0)},
				LineTo{Pt(10, 10)},
				Close{},
			},
		},
		{
			"relative commands",
			"m 5 5 l 10 0 l 0 10 z",
			[]PathElement{
				MoveTo{Pt(5, 5)},
				LineTo{Pt(15, 5)},
				LineTo{Pt(15, 15)},
				Close{},
			},
		},
		{
			"horizontal and vertical",
			"M 1 2 H 10 V 20 h -4 v -6",
			[]PathElement{
				MoveTo{Pt(1, 2)},
				LineTo{Pt(10, 2)},
				LineTo{Pt(10, 20)},
				LineTo{Pt(6, 20)},
				LineTo{Pt(6, 14)},
			},
		},
		{
			"implicit lineto after moveto",
			"M 0 0 10 10 20 0",
			[]PathElement{
				MoveTo{Pt(0, 0)},
				LineTo{Pt(10, 10)},
				LineTo{Pt(20, 0)},
			},
		},
		{
			"implicit command repetition",
			"M 0 0 L 1 1 2 2",
			[]PathElement{
				MoveTo{Pt(0, 0)},
				LineTo{Pt(1, 1)},
				LineTo{Pt(2, 2)},
			},
		},
		{
			"quadratic",
			"M 0 0 Q 5 10 10 0",
			[]PathElement{
				MoveTo{Pt(0, 0)},
				QuadTo{Pt(5, 10), Pt(10, 0)},
			},
		},
		{
			"relative cubic",
			"M 10 10 c 0 -5 10 -5 10 0",
			[]PathElement{
				MoveTo{Pt(10, 10)},
				CubicTo{Pt(10, 5), Pt(20, 5), Pt(20, 10)},
			},
		},
		{
			"comma separators and negatives",
			"M0,0L-5,-5",
			[]PathElement{
				MoveTo{Pt(0, 0)},
				LineTo{Pt(-5, -5)},
			},
		},
		{
			"packed signs",
			"M 1 2 l 3-4",
			[]PathElement{
				MoveTo{Pt(1, 2)},
				LineTo{Pt(4, -2)},
			},
		},
		{
			"decimals and exponents",
			"M 0.5 1e1 L 2.5e-1 0",
			[]PathElement{
				MoveTo{Pt(0.5, 10)},
				LineTo{Pt(0.25, 0)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.data)
			if err != nil {
				t.Fatalf("ParsePath(%q): %v", tt.data, err)
			}
			if !reflect.DeepEqual(p.Elements(), tt.want) {
				t.Errorf("ParsePath(%q) = %v, want %v", tt.data, p.Elements(), tt.want)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no command", "10 10"},
		{"unsupported command", "M 0 0 A 1 1 0 0 0 5 5"},
		{"missing coordinate", "M 0 0 L 5"},
		{"garbage", "M x y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePath(tt.data); err == nil {
				t.Errorf("ParsePath(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestParsePathErrorMentionsOffset(t *testing.T) {
	_, err := ParsePath("M 0 0 L abc")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "offset") {
		t.Errorf("error %q should locate the failure", err)
	}
}

func TestPathTransform(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.LineTo(2, 1)
	p.QuadraticTo(3, 3, 4, 1)
	p.Close()

	q := p.Transform(Translate(10, 20).Mul(Scale(2, 2)))
	want := []PathElement{
		MoveTo{Pt(12, 22)},
		LineTo{Pt(14, 22)},
		QuadTo{Pt(16, 26), Pt(18, 22)},
		Close{},
	}
	if !reflect.DeepEqual(q.Elements(), want) {
		t.Errorf("transformed path = %v, want %v", q.Elements(), want)
	}
	// Original untouched.
	if p.Elements()[0].(MoveTo).Point != Pt(1, 1) {
		t.Error("Transform mutated the source path")
	}
}

func TestAffine(t *testing.T) {
	tr := Translate(3, 4)
	x, y := tr.Apply(1, 1)
	if x != 4 || y != 5 {
		t.Errorf("translate apply = (%g, %g), want (4, 5)", x, y)
	}
	if !Identity().IsIdentity() {
		t.Error("Identity not identity")
	}
	if Translate(1, 0).IsIdentity() {
		t.Error("translation reported as identity")
	}
	// Rotation preserves distance; MaxScale stays 1.
	r := Rotate(0.9)
	if s := r.MaxScale(); s < 0.999 || s > 1.001 {
		t.Errorf("rotation MaxScale = %g, want 1", s)
	}
	if s := Scale(2, 3).MaxScale(); s != 3 {
		t.Errorf("scale MaxScale = %g, want 3", s)
	}
}
