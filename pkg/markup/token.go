package markup

import "strings"

// Tag syntax.
const (
	TagStart byte = '<'
	TagEnd   byte = '>'

	tagClose     byte = '/'
	modifierMark byte = ':'
	modifierSep  byte = '|'
	valueMark    byte = '='
)

// Token is one recognized tag occurrence.
type Token struct {
	Closing bool
	Kind    Kind
	Mask    ModifierMask
	Value   string
}

// String renders the token back into markup.
func (t Token) String() string {
	var b strings.Builder
	b.WriteByte(TagStart)
	if t.Closing {
		b.WriteByte(tagClose)
		b.WriteString(t.Kind.String())
		b.WriteByte(TagEnd)
		return b.String()
	}
	b.WriteString(t.Kind.String())
	if t.Mask != 0 {
		b.WriteByte(modifierMark)
		b.WriteString(t.Mask.String())
	}
	b.WriteByte(valueMark)
	b.WriteString(t.Value)
	b.WriteByte(TagEnd)
	return b.String()
}

// scanner is a cursor over the input. Every consume either advances past an
// exact match or leaves the cursor untouched.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) consume(b byte) bool {
	if s.pos < len(s.input) && s.input[s.pos] == b {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) consumeString(lit string) bool {
	if strings.HasPrefix(s.input[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *scanner) kind() (Kind, bool) {
	for k, name := range kindNames {
		if s.consumeString(name) {
			return Kind(k), true
		}
	}
	return KindCount, false
}

func (s *scanner) modifier(k Kind) (Modifier, bool) {
	for _, m := range validModifiers[k] {
		if s.consumeString(modifierNames[m]) {
			return m, true
		}
	}
	return ModifierCount, false
}

// ParseTag tries to recognize one complete tag starting at pos:
//
//	tag       := "<" ["/"] kindname [modifiers] ["=" value] ">"
//	modifiers := ":" modifier ("|" modifier)*
//
// Closing tags carry neither modifiers nor a value. The value runs up to the
// first '>' and cannot contain it. On success the returned position is just
// past the closing '>'; on failure it is pos, unchanged.
func ParseTag(input string, pos int) (Token, int, bool) {
	if pos < 0 || pos >= len(input) {
		return Token{}, pos, false
	}
	s := scanner{input: input, pos: pos}
	if !s.consume(TagStart) {
		return Token{}, pos, false
	}

	var tok Token
	tok.Closing = s.consume(tagClose)

	kind, ok := s.kind()
	if !ok {
		return Token{}, pos, false
	}
	tok.Kind = kind

	if !tok.Closing {
		if s.consume(modifierMark) {
			for {
				m, ok := s.modifier(kind)
				if !ok {
					return Token{}, pos, false
				}
				tok.Mask |= m.Bit()
				if !s.consume(modifierSep) {
					break
				}
			}
		}
		if s.consume(valueMark) {
			end := strings.IndexByte(input[s.pos:], TagEnd)
			if end < 0 {
				return Token{}, pos, false
			}
			tok.Value = input[s.pos : s.pos+end]
			s.pos += end
		}
	}

	if !s.consume(TagEnd) {
		return Token{}, pos, false
	}
	return tok, s.pos, true
}
