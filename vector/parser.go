package vector

import (
	"fmt"
	"strconv"
)

// ParsePath parses SVG path data (the "d" attribute grammar) into a
// Path. The supported command set is M, L, H, V, C, Q and Z, in both
// absolute and relative forms, with the usual implicit repetition
// rules: extra coordinate pairs after M/m are treated as L/l, and any
// other command repeats itself.
func ParsePath(data string) (*Path, error) {
	s := &pathScanner{src: data}
	p := NewPath()

	var cmd byte
	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		c := s.peek()
		if isCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, fmt.Errorf("path: expected command at offset %d, got %q", s.pos, string(c))
		} else {
			// Implicit repetition. A moveto repeats as lineto.
			switch cmd {
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			}
		}

		if err := applyCommand(p, s, cmd); err != nil {
			return nil, err
		}
	}
	if p.Empty() {
		return nil, fmt.Errorf("path: no commands in %q", data)
	}
	return p, nil
}

func applyCommand(p *Path, s *pathScanner, cmd byte) error {
	cur := p.current
	switch cmd {
	case 'M', 'm':
		x, y, err := s.coordPair()
		if err != nil {
			return err
		}
		if cmd == 'm' {
			x += cur.X
			y += cur.Y
		}
		p.MoveTo(x, y)
	case 'L', 'l':
		x, y, err := s.coordPair()
		if err != nil {
			return err
		}
		if cmd == 'l' {
			x += cur.X
			y += cur.Y
		}
		p.LineTo(x, y)
	case 'H', 'h':
		x, err := s.number()
		if err != nil {
			return err
		}
		if cmd == 'h' {
			x += cur.X
		}
		p.LineTo(x, cur.Y)
	case 'V', 'v':
		y, err := s.number()
		if err != nil {
			return err
		}
		if cmd == 'v' {
			y += cur.Y
		}
		p.LineTo(cur.X, y)
	case 'Q', 'q':
		cx, cy, err := s.coordPair()
		if err != nil {
			return err
		}
		x, y, err := s.coordPair()
		if err != nil {
			return err
		}
		if cmd == 'q' {
			cx += cur.X
			cy += cur.Y
			x += cur.X
			y += cur.Y
		}
		p.QuadraticTo(cx, cy, x, y)
	case 'C', 'c':
		c1x, c1y, err := s.coordPair()
		if err != nil {
			return err
		}
		c2x, c2y, err := s.coordPair()
		if err != nil {
			return err
		}
		x, y, err := s.coordPair()
		if err != nil {
			return err
		}
		if cmd == 'c' {
			c1x += cur.X
			c1y += cur.Y
			c2x += cur.X
			c2y += cur.Y
			x += cur.X
			y += cur.Y
		}
		p.CubicTo(c1x, c1y, c2x, c2y, x, y)
	case 'Z', 'z':
		p.Close()
	default:
		return fmt.Errorf("path: unsupported command %q at offset %d", string(cmd), s.pos-1)
	}
	return nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'Q', 'q', 'Z', 'z':
		return true
	}
	return false
}

// pathScanner tokenizes path data: commands, numbers, and the
// whitespace/comma separators between them.
type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) peek() byte { return s.src[s.pos] }

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

// number scans one float. Signs, decimals and exponents follow the SVG
// number grammar; "1-2" parses as two numbers.
func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
		s.pos++
	}
	digits := false
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
		digits = true
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
			digits = true
		}
	}
	if digits && s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		mark := s.pos
		s.pos++
		if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
			s.pos++
		}
		expDigits := false
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
			expDigits = true
		}
		if !expDigits {
			s.pos = mark
		}
	}
	if !digits {
		return 0, fmt.Errorf("path: expected number at offset %d", start)
	}
	v, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("path: bad number %q at offset %d", s.src[start:s.pos], start)
	}
	return v, nil
}

func (s *pathScanner) coordPair() (x, y float64, err error) {
	x, err = s.number()
	if err != nil {
		return 0, 0, err
	}
	y, err = s.number()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
