package markup

// Kind identifies the category of an annotation.
type Kind uint8

const (
	KindFn Kind = iota
	KindFg
	KindBg
	KindBox
	KindBtnLeft
	KindBtnMiddle
	KindBtnRight
	KindScrollUp
	KindScrollDown

	// KindCount is the number of kinds, useful for sizing per-kind tables.
	KindCount
)

// kindNames is the wire table for tag names. Matching is exact and case
// sensitive, in table order.
var kindNames = [KindCount]string{
	KindFn:         "Fn",
	KindFg:         "Fg",
	KindBg:         "Bg",
	KindBox:        "Box",
	KindBtnLeft:    "BtnL",
	KindBtnMiddle:  "BtnM",
	KindBtnRight:   "BtnR",
	KindScrollUp:   "ScrlU",
	KindScrollDown: "ScrlD",
}

// String returns the tag name used in markup.
func (k Kind) String() string {
	if k >= KindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// Kinds returns every kind in table order.
func Kinds() []Kind {
	kinds := make([]Kind, KindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind looks up a kind by its exact tag name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindCount, false
}

// IsAction reports whether the kind binds a command to a pointer event.
func (k Kind) IsAction() bool {
	return k >= KindBtnLeft && k <= KindScrollDown
}

// Modifier qualifies an annotation: a held key for action kinds, an edge for
// Box.
type Modifier uint8

const (
	ModShift Modifier = iota
	ModCtrl
	ModSuper
	ModAlt
	ModLeft
	ModRight
	ModTop
	ModBottom

	ModifierCount
)

var modifierNames = [ModifierCount]string{
	ModShift:  "Shift",
	ModCtrl:   "Ctrl",
	ModSuper:  "Super",
	ModAlt:    "Alt",
	ModLeft:   "Left",
	ModRight:  "Right",
	ModTop:    "Top",
	ModBottom: "Bottom",
}

func (m Modifier) String() string {
	if m >= ModifierCount {
		return "Unknown"
	}
	return modifierNames[m]
}

// Bit returns the mask bit for the modifier.
func (m Modifier) Bit() ModifierMask {
	return 1 << m
}

// ModifierMask is a set of modifiers, one bit per Modifier.
type ModifierMask uint32

// Has reports whether m is in the mask.
func (mask ModifierMask) Has(m Modifier) bool {
	return mask&m.Bit() != 0
}

// Modifiers lists the modifiers in the mask in declaration order.
func (mask ModifierMask) Modifiers() []Modifier {
	var mods []Modifier
	for m := Modifier(0); m < ModifierCount; m++ {
		if mask.Has(m) {
			mods = append(mods, m)
		}
	}
	return mods
}

// String renders the mask the way it is written in a tag, e.g. "Top|Bottom".
func (mask ModifierMask) String() string {
	s := ""
	for _, m := range mask.Modifiers() {
		if s != "" {
			s += "|"
		}
		s += m.String()
	}
	return s
}

// MaskOf builds a mask from a list of modifiers.
func MaskOf(mods ...Modifier) ModifierMask {
	var mask ModifierMask
	for _, m := range mods {
		mask |= m.Bit()
	}
	return mask
}

var (
	boxModifiers    = []Modifier{ModLeft, ModRight, ModTop, ModBottom}
	actionModifiers = []Modifier{ModShift, ModCtrl, ModSuper, ModAlt}
)

// validModifiers is indexed by kind. Order is the match order.
var validModifiers = [KindCount][]Modifier{
	KindFn:         nil,
	KindFg:         nil,
	KindBg:         nil,
	KindBox:        boxModifiers,
	KindBtnLeft:    actionModifiers,
	KindBtnMiddle:  actionModifiers,
	KindBtnRight:   actionModifiers,
	KindScrollUp:   actionModifiers,
	KindScrollDown: actionModifiers,
}

// ValidModifiers returns the modifiers a kind accepts.
func (k Kind) ValidModifiers() []Modifier {
	if k >= KindCount {
		return nil
	}
	return append([]Modifier(nil), validModifiers[k]...)
}

// BoxEdges lists the Box modifiers in drawing order.
func BoxEdges() []Modifier {
	return append([]Modifier(nil), boxModifiers...)
}
