// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package mapfile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/qbsptools/bsptools/geom"
)

// ParseError reports a fatal grammar violation. It carries the line number
// and a message only; the file name and the offending token are not part
// of it.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("map parse error at line %d: %s", e.Line, e.Msg)
}

// Parse reads a complete .map file per the following grammar:
//
//	file   = entity+
//	entity = '{' (epair | brush)* '}'
//	brush  = '{' face+ '}'
func Parse(r io.Reader) (*Map, error) {
	p := &parser{lx: newLexer(r)}
	m := &Map{}
	for {
		tok, err := p.lx.Next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			break
		}
		if tok.kind != tokBraceOpen {
			return nil, &ParseError{Line: tok.line, Msg: "expected '{' to start entity"}
		}
		ent, err := p.parseEntity(tok.line)
		if err != nil {
			return nil, err
		}
		m.Entities = append(m.Entities, ent)
	}
	return m, nil
}

type parser struct {
	lx *lexer
}

func (p *parser) next() (token, error) { return p.lx.Next() }

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.kind != kind {
		return tok, &ParseError{Line: tok.line, Msg: "expected " + what}
	}
	return tok, nil
}

func (p *parser) parseEntity(line int) (Entity, error) {
	ent := Entity{Pairs: map[string]string{}, LineNo: line}
	for {
		tok, err := p.next()
		if err != nil {
			return ent, err
		}
		switch tok.kind {
		case tokBraceClose:
			return ent, nil
		case tokString:
			key := tok.text
			val, err := p.expect(tokString, "epair value string")
			if err != nil {
				return ent, err
			}
			ent.Pairs[key] = val.text
		case tokBraceOpen:
			b, err := p.parseBrush(tok.line)
			if err != nil {
				return ent, err
			}
			ent.Brush = append(ent.Brush, b)
		default:
			return ent, &ParseError{Line: tok.line, Msg: "expected epair or brush in entity"}
		}
	}
}

func (p *parser) parseBrush(line int) (Brush, error) {
	b := Brush{LineNo: line}
	for {
		tok, err := p.next()
		if err != nil {
			return b, err
		}
		if tok.kind == tokBraceClose {
			return b, nil
		}
		if tok.kind == tokTX1 || tok.kind == tokTX2 {
			// QuArK annotates the *previous* face line: retroactively mark
			// it as QuArK syntax so Decode() derives axes from its points
			// instead of the Standard shift/rotate/scale it was parsed
			// with.
			if n := len(b.Faces); n > 0 {
				b.Faces[n-1].Tex.Syntax = SyntaxQuArK
			}
			continue
		}
		if tok.kind != tokParenOpen {
			return b, &ParseError{Line: tok.line, Msg: "expected '(' to start face plane point"}
		}
		face, err := p.parseFace(tok.line)
		if err != nil {
			return b, err
		}
		b.Faces = append(b.Faces, face)
	}
}

func (p *parser) parsePoint() (geom.Vec3, error) {
	x, err := p.parseNumber()
	if err != nil {
		return geom.Vec3{}, err
	}
	y, err := p.parseNumber()
	if err != nil {
		return geom.Vec3{}, err
	}
	z, err := p.parseNumber()
	if err != nil {
		return geom.Vec3{}, err
	}
	if _, err := p.expect(tokParenClose, "')' closing plane point"); err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{X: x, Y: y, Z: z}, nil
}

func (p *parser) parseNumber() (float64, error) {
	tok, err := p.expect(tokString, "numeric value")
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseFloat(tok.text, 64)
	if perr != nil {
		return 0, &ParseError{Line: tok.line, Msg: "bad numeric value '" + tok.text + "'"}
	}
	return v, nil
}

// parseFace parses the three plane points already begun by the caller's
// '(' token (first point), then dispatches on the texture descriptor
// syntax
func (p *parser) parseFace(firstParen int) (Face, error) {
	p0, err := p.parsePoint()
	if err != nil {
		return Face{}, err
	}
	if _, err := p.expect(tokParenOpen, "'(' starting second plane point"); err != nil {
		return Face{}, err
	}
	p1, err := p.parsePoint()
	if err != nil {
		return Face{}, err
	}
	if _, err := p.expect(tokParenOpen, "'(' starting third plane point"); err != nil {
		return Face{}, err
	}
	p2, err := p.parsePoint()
	if err != nil {
		return Face{}, err
	}

	f := Face{P0: p0, P1: p1, P2: p2, LineNo: firstParen}

	tok, err := p.next()
	if err != nil {
		return Face{}, err
	}

	switch tok.kind {
	case tokParenOpen:
		td, err := p.parseBrushPrimitivesTex(tok.line)
		if err != nil {
			return Face{}, err
		}
		f.Tex = td
	case tokString:
		name := tok.text
		peek, err := p.next()
		if err != nil {
			return Face{}, err
		}
		if peek.kind == tokBracketOpen {
			td, err := p.parseValve220Tex(name, peek.line)
			if err != nil {
				return Face{}, err
			}
			f.Tex = td
		} else if peek.kind == tokString {
			td, qerr := p.parseStandardTex(name, peek)
			if qerr != nil {
				return Face{}, qerr
			}
			f.Tex = td
		} else {
			return Face{}, &ParseError{Line: peek.line, Msg: "unexpected token after texture name"}
		}
	default:
		return Face{}, &ParseError{Line: tok.line, Msg: "expected texture descriptor"}
	}
	return f, nil
}

// parseStandardTex continues from a texture name and the already-read
// shift_s token to parse the remaining Standard fields, plus the optional
// Q2 "contents flags value" triple. A trailing QuArK //TX1 / //TX2
// annotation is left to parseBrush, which retroactively changes the syntax.
func (p *parser) parseStandardTex(name string, shiftSTok token) (TexDef, error) {
	shiftS, perr := strconv.ParseFloat(shiftSTok.text, 64)
	if perr != nil {
		return TexDef{}, &ParseError{Line: shiftSTok.line, Msg: "bad shift_s '" + shiftSTok.text + "'"}
	}
	shiftT, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	rotate, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	scaleS, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	scaleT, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	td := TexDef{Syntax: SyntaxStandard, Name: name, ShiftS: shiftS, ShiftT: shiftT, Rotate: rotate, ScaleS: scaleS, ScaleT: scaleT}

	// Optional Q2 "contents flags value" triple: three more bare numbers.
	if cf, ok := p.tryPeekInt(); ok {
		td.ContentFlags = uint32(cf)
		if sf, ok := p.tryPeekInt(); ok {
			td.SurfaceFlags = uint32(sf)
			if v, ok := p.tryPeekInt(); ok {
				td.Value = int32(v)
			}
		}
	}
	return td, nil
}

// tryPeekInt consumes one field of the optional Q2 "contents flags value"
// triple that can follow a Standard texture descriptor. It looks at the next
// byte first and only reads a token when that byte starts a number, so the
// next face's opening paren or the brush's closing brace is left unread.
func (p *parser) tryPeekInt() (int64, bool) {
	p.lx.skipWhitespaceAndComments()
	b, ok := p.lx.peekByte()
	if !ok || !(b == '-' || (b >= '0' && b <= '9')) {
		return 0, false
	}
	tok, err := p.lx.readBare(p.lx.line)
	if err != nil {
		return 0, false
	}
	v, perr := strconv.ParseInt(tok.text, 10, 64)
	if perr != nil {
		return 0, false
	}
	return v, true
}

func (p *parser) parseValve220Tex(name string, firstBracket int) (TexDef, error) {
	s, err := p.parseVec4CloseBracket()
	if err != nil {
		return TexDef{}, err
	}
	if _, err := p.expect(tokBracketOpen, "'[' starting T axis"); err != nil {
		return TexDef{}, err
	}
	t, err := p.parseVec4CloseBracket()
	if err != nil {
		return TexDef{}, err
	}
	rotate, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	scaleS, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	scaleT, err := p.parseNumber()
	if err != nil {
		return TexDef{}, err
	}
	return TexDef{
		Syntax: SyntaxValve220, Name: name,
		Valve220S: s, Valve220T: t,
		Rotate: rotate, ScaleS: scaleS, ScaleT: scaleT,
	}, nil
}

func (p *parser) parseVec4CloseBracket() (geom.Vec4, error) {
	x, err := p.parseNumber()
	if err != nil {
		return geom.Vec4{}, err
	}
	y, err := p.parseNumber()
	if err != nil {
		return geom.Vec4{}, err
	}
	z, err := p.parseNumber()
	if err != nil {
		return geom.Vec4{}, err
	}
	w, err := p.parseNumber()
	if err != nil {
		return geom.Vec4{}, err
	}
	if _, err := p.expect(tokBracketClose, "']' closing axis"); err != nil {
		return geom.Vec4{}, err
	}
	return geom.Vec4{X: x, Y: y, Z: z, W: w}, nil
}

// parseBrushPrimitivesTex parses "(( a b c )( d e f )) name" starting just
// after the outer '(' the caller already consumed.
func (p *parser) parseBrushPrimitivesTex(outerParen int) (TexDef, error) {
	if _, err := p.expect(tokParenOpen, "'(' starting BP row 0"); err != nil {
		return TexDef{}, err
	}
	row0, err := p.parseTriple()
	if err != nil {
		return TexDef{}, err
	}
	if _, err := p.expect(tokParenOpen, "'(' starting BP row 1"); err != nil {
		return TexDef{}, err
	}
	row1, err := p.parseTriple()
	if err != nil {
		return TexDef{}, err
	}
	if _, err := p.expect(tokParenClose, "')' closing BP matrix"); err != nil {
		return TexDef{}, err
	}
	name, err := p.expect(tokString, "texture name")
	if err != nil {
		return TexDef{}, err
	}
	return TexDef{
		Syntax:   SyntaxBrushPrimitives,
		Name:     name.text,
		BPMatrix: [2][3]float64{row0, row1},
	}, nil
}

func (p *parser) parseTriple() ([3]float64, error) {
	a, err := p.parseNumber()
	if err != nil {
		return [3]float64{}, err
	}
	b, err := p.parseNumber()
	if err != nil {
		return [3]float64{}, err
	}
	c, err := p.parseNumber()
	if err != nil {
		return [3]float64{}, err
	}
	if _, err := p.expect(tokParenClose, "')' closing BP row"); err != nil {
		return [3]float64{}, err
	}
	return [3]float64{a, b, c}, nil
}
