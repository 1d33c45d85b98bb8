// Package typeexpr parses textual WinRT type expressions used by tools and tests.
package typeexpr

import (
	"fmt"
	"strings"

	"github.com/wippyai/winrt-runtime/errors"
	"github.com/wippyai/winrt-runtime/guid"
	"github.com/wippyai/winrt-runtime/winrt"
)

// Resolver maps a name the parser does not know to a type.
type Resolver func(name string) (winrt.Type, bool)

var basicByName = map[string]winrt.BasicType{}

func init() {
	aliases := map[winrt.BasicType][]string{
		winrt.BasicBool:   {"bool"},
		winrt.BasicI8:     {"int8"},
		winrt.BasicU8:     {"uint8"},
		winrt.BasicI16:    {"int16"},
		winrt.BasicU16:    {"uint16"},
		winrt.BasicI32:    {"int32"},
		winrt.BasicU32:    {"uint32"},
		winrt.BasicI64:    {"int64"},
		winrt.BasicU64:    {"uint64"},
		winrt.BasicF32:    {"float32"},
		winrt.BasicF64:    {"float64"},
		winrt.BasicChar16: {"char"},
		winrt.BasicString: {"string"},
		winrt.BasicGuid:   {"guid"},
		winrt.BasicObject: {"object", "IInspectable"},
	}
	for b := winrt.BasicBool; b <= winrt.BasicObject; b++ {
		basicByName[b.String()] = b
		basicByName[winrt.Signature(b)] = b
		for _, a := range aliases[b] {
			basicByName[a] = b
		}
	}
}

// Parse parses a type expression:
//
//	Int32, i4, String                           basic types by name or signature code
//	IAsyncOperation<String>                     well-known generics, nested freely
//	Windows.Storage.StorageFile@{guid}          runtime class with its default interface
//	{guid}                                      interface
//	delegate{guid}                              delegate
//	pinterface{piid}<i4>                        instantiation of any generic by PIID
//
// Names that are none of these are passed to resolve, which may be nil.
func Parse(input string, resolve Resolver) (winrt.Type, error) {
	tokens, bad := tokenize(input)
	if bad >= 0 {
		return nil, errors.ParseFailed(input, bad, "unexpected character")
	}
	p := &parser{input: input, tokens: tokens, resolve: resolve}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, p.fail(tok, "unexpected "+tok.value)
	}
	return t, nil
}

// MustParse is Parse without a resolver for expressions known to be valid.
func MustParse(input string) winrt.Type {
	t, err := Parse(input, nil)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	resolve Resolver
	input   string
	tokens  []token
	pos     int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) fail(t token, detail string) error {
	return errors.ParseFailed(p.input, t.pos, detail)
}

func (p *parser) expect(typ tokenType) (token, error) {
	t := p.next()
	if t.typ != typ {
		got := t.value
		if t.typ == tokEOF {
			got = t.typ.String()
		}
		return t, p.fail(t, fmt.Sprintf("expected %v, got %s", typ, got))
	}
	return t, nil
}

func (p *parser) guid(t token) (guid.GUID, error) {
	id, err := guid.Parse(t.value)
	if err != nil {
		return guid.Nil, p.fail(t, "malformed guid "+t.value)
	}
	return id, nil
}

func (p *parser) parseType() (winrt.Type, error) {
	t := p.next()
	switch t.typ {
	case tokGUID:
		id, err := p.guid(t)
		if err != nil {
			return nil, err
		}
		return winrt.Resugar(winrt.InterfaceType{IID: id}), nil
	case tokIdent:
	default:
		return nil, p.fail(t, "expected type, got "+t.typ.String())
	}

	switch t.value {
	case "delegate":
		g, err := p.expect(tokGUID)
		if err != nil {
			return nil, err
		}
		id, err := p.guid(g)
		if err != nil {
			return nil, err
		}
		return winrt.DelegateType{IID: id}, nil
	case "pinterface":
		g, err := p.expect(tokGUID)
		if err != nil {
			return nil, err
		}
		id, err := p.guid(g)
		if err != nil {
			return nil, err
		}
		if known, ok := knownByPIID(id); ok {
			return p.instantiate(t, known)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		def := winrt.GenericType{PIID: id, Arity: len(args)}
		return winrt.Resugar(def.Of(args...)), nil
	}

	if p.peek().typ == tokAt {
		p.next()
		g, err := p.expect(tokGUID)
		if err != nil {
			return nil, err
		}
		id, err := p.guid(g)
		if err != nil {
			return nil, err
		}
		return winrt.RuntimeClassType{Name: t.value, Default: id}, nil
	}

	if b, ok := basicByName[t.value]; ok {
		return b, nil
	}
	if t.value == "IAsyncAction" || t.value == "Windows.Foundation.IAsyncAction" {
		return winrt.AsyncActionType{}, nil
	}
	if g, ok := winrt.LookupGeneric(t.value); ok {
		return p.instantiate(t, g)
	}
	if p.resolve != nil {
		if r, ok := p.resolve(t.value); ok {
			return r, nil
		}
	}
	return nil, p.fail(t, "unknown type "+t.value)
}

func (p *parser) instantiate(name token, g winrt.GenericType) (winrt.Type, error) {
	if p.peek().typ != tokLAngle {
		return nil, p.fail(name, fmt.Sprintf("%s takes %d type arguments", g, g.Arity))
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if len(args) != g.Arity {
		return nil, p.fail(name, fmt.Sprintf("%s takes %d type arguments, got %d", g, g.Arity, len(args)))
	}
	return winrt.Resugar(g.Of(args...)), nil
}

func (p *parser) parseArgs() ([]winrt.Type, error) {
	if _, err := p.expect(tokLAngle); err != nil {
		return nil, err
	}
	var args []winrt.Type
	for {
		a, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		t := p.next()
		switch t.typ {
		case tokComma:
			continue
		case tokRAngle:
			return args, nil
		}
		return nil, p.fail(t, "expected ',' or '>'")
	}
}

func knownByPIID(id guid.GUID) (winrt.GenericType, bool) {
	for _, g := range winrt.KnownGenerics() {
		if g.PIID == id {
			return g, true
		}
	}
	return winrt.GenericType{}, false
}

// Format renders t so that Parse reads it back as an equal type. Named
// interfaces, structs and enums are written by name and need a resolver.
func Format(t winrt.Type) string {
	var b strings.Builder
	format(&b, t)
	return b.String()
}

func format(b *strings.Builder, t winrt.Type) {
	switch v := winrt.Desugar(t).(type) {
	case winrt.InterfaceType:
		if v.Name != "" {
			b.WriteString(v.Name)
		} else {
			b.WriteString(v.IID.Braced())
		}
	case winrt.DelegateType:
		if v.Name != "" {
			b.WriteString(v.Name)
		} else {
			b.WriteString("delegate" + v.IID.Braced())
		}
	case winrt.RuntimeClassType:
		b.WriteString(v.Name + "@" + v.Default.Braced())
	case winrt.AsyncActionType:
		b.WriteString("IAsyncAction")
	case winrt.ParameterizedType:
		if v.Def.Name != "" {
			name := v.Def.Name[strings.LastIndexByte(v.Def.Name, '.')+1:]
			if i := strings.IndexByte(name, '`'); i >= 0 {
				name = name[:i]
			}
			b.WriteString(name)
		} else {
			b.WriteString("pinterface" + v.Def.PIID.Braced())
		}
		b.WriteByte('<')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, a)
		}
		b.WriteByte('>')
	default:
		b.WriteString(t.String())
	}
}
