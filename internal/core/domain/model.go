package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by parsing and configuration validation.
// The text operations themselves never fail.
var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidPolicy    = errors.New("invalid policy")
)

// Operation identifies one of the text transformations.
type Operation int

const (
	// Reverse reverses the order of the text units.
	Reverse Operation = iota
	// ToUpper maps every character to its uppercase form.
	ToUpper
	// RemoveSpaces deletes space characters.
	RemoveSpaces
)

// String returns the canonical name of the operation.
func (o Operation) String() string {
	switch o {
	case Reverse:
		return "reverse"
	case ToUpper:
		return "upper"
	case RemoveSpaces:
		return "remove-spaces"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// ParseOperation resolves an operation name. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reverse":
		return Reverse, nil
	case "upper", "to-upper", "toupper":
		return ToUpper, nil
	case "remove-spaces", "removespaces", "nospace":
		return RemoveSpaces, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
}

// ParseOperations parses a comma separated list such as "upper,reverse".
// Empty elements are skipped, so "" yields an empty list.
func ParseOperations(list string) ([]Operation, error) {
	var ops []Operation
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		op, err := ParseOperation(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ReverseUnit selects the unit that Reverse reorders.
type ReverseUnit int

const (
	// Runes reverses by decoded code point. Invalid UTF-8 bytes are one-byte units.
	Runes ReverseUnit = iota
	// Bytes reverses raw bytes. Multi-byte sequences are not kept intact.
	Bytes
	// Graphemes reverses by extended grapheme cluster.
	Graphemes
)

func (u ReverseUnit) String() string {
	switch u {
	case Runes:
		return "runes"
	case Bytes:
		return "bytes"
	case Graphemes:
		return "graphemes"
	default:
		return fmt.Sprintf("reverse-unit(%d)", int(u))
	}
}

// ParseReverseUnit resolves a reverse unit name.
func ParseReverseUnit(name string) (ReverseUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "runes", "rune", "codepoints":
		return Runes, nil
	case "bytes", "byte":
		return Bytes, nil
	case "graphemes", "grapheme":
		return Graphemes, nil
	default:
		return 0, fmt.Errorf("%w: reverse unit %q", ErrInvalidPolicy, name)
	}
}

// CaseMapping selects the uppercase table used by ToUpper.
type CaseMapping int

const (
	// Simple applies the one-to-one Unicode simple uppercase mapping.
	Simple CaseMapping = iota
	// ASCII only maps a-z.
	ASCII
	// Full applies the root-locale Unicode full mapping, which may expand (ß -> SS).
	Full
)

func (m CaseMapping) String() string {
	switch m {
	case Simple:
		return "simple"
	case ASCII:
		return "ascii"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("case-mapping(%d)", int(m))
	}
}

// ParseCaseMapping resolves a case mapping name.
func ParseCaseMapping(name string) (CaseMapping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return Simple, nil
	case "ascii":
		return ASCII, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("%w: case mapping %q", ErrInvalidPolicy, name)
	}
}

// SpaceClass selects which characters RemoveSpaces deletes.
type SpaceClass int

const (
	// Space deletes U+0020 only.
	Space SpaceClass = iota
	// ASCIIWhitespace deletes space, \t, \n, \v, \f and \r.
	ASCIIWhitespace
	// UnicodeWhitespace deletes every rune for which unicode.IsSpace reports true.
	UnicodeWhitespace
)

func (c SpaceClass) String() string {
	switch c {
	case Space:
		return "space"
	case ASCIIWhitespace:
		return "ascii-whitespace"
	case UnicodeWhitespace:
		return "unicode-whitespace"
	default:
		return fmt.Sprintf("space-class(%d)", int(c))
	}
}

// ParseSpaceClass resolves a space class name.
func ParseSpaceClass(name string) (SpaceClass, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "space":
		return Space, nil
	case "ascii-whitespace", "ascii":
		return ASCIIWhitespace, nil
	case "unicode-whitespace", "unicode", "whitespace":
		return UnicodeWhitespace, nil
	default:
		return 0, fmt.Errorf("%w: space class %q", ErrInvalidPolicy, name)
	}
}
