package text

import "strconv"

// Family selects how a Font is resolved against the loaded sources.
type Family uint8

const (
	// FamilySansSerif is the default generic family (zero value).
	FamilySansSerif Family = iota

	// FamilySerif is the generic serif family.
	FamilySerif

	// FamilyCursive is the generic cursive family.
	FamilyCursive

	// FamilyFantasy is the generic fantasy family.
	FamilyFantasy

	// FamilyMonospace is the generic monospace family.
	// Shaping requests for it carry the monospaced attribute.
	FamilyMonospace

	// FamilyName resolves by the family name stored in Font.Name.
	FamilyName
)

// String returns the CSS-style name of the family.
func (f Family) String() string {
	switch f {
	case FamilySansSerif:
		return "sans-serif"
	case FamilySerif:
		return "serif"
	case FamilyCursive:
		return "cursive"
	case FamilyFantasy:
		return "fantasy"
	case FamilyMonospace:
		return "monospace"
	case FamilyName:
		return "name"
	default:
		return "Family(" + strconv.Itoa(int(f)) + ")"
	}
}

// Font describes the font of a text request.
//
// Font is comparable and is part of the text cache key. Name is only
// meaningful when Family is FamilyName.
type Font struct {
	Family Family
	Name   string
}

// Generic font descriptors.
var (
	SansSerif = Font{Family: FamilySansSerif}
	Serif     = Font{Family: FamilySerif}
	Cursive   = Font{Family: FamilyCursive}
	Fantasy   = Font{Family: FamilyFantasy}
	Monospace = Font{Family: FamilyMonospace}
)

// NamedFont returns a descriptor for the font family with the given name.
func NamedFont(name string) Font {
	return Font{Family: FamilyName, Name: name}
}

// String returns the family name for named fonts and the generic family
// name otherwise.
func (f Font) String() string {
	if f.Family == FamilyName {
		return strconv.Quote(f.Name)
	}
	return f.Family.String()
}
