package casing

import (
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/pool"
)

var bufferPool = pool.NewBufferPool(256)

// A cases.Caser is stateful and must not be shared between goroutines.
var caserPool = sync.Pool{
	New: func() interface{} {
		c := cases.Upper(language.Und)
		return &c
	},
}

// Config holds configuration for the uppercase transformer.
type Config struct {
	Mapping domain.CaseMapping
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Mapping: domain.Simple}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Mapping {
	case domain.Simple, domain.ASCII, domain.Full:
		return nil
	default:
		return fmt.Errorf("%w: case mapping %d", domain.ErrInvalidPolicy, int(c.Mapping))
	}
}

// Upper maps text to uppercase using the configured table.
type Upper struct {
	mapping domain.CaseMapping
}

// NewUpper creates a new uppercase transformer.
func NewUpper(config Config) (*Upper, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Upper{mapping: config.Mapping}, nil
}

// Name implements ports.Transformer.
func (u *Upper) Name() string {
	return domain.ToUpper.String()
}

// Mapping reports the configured case mapping.
func (u *Upper) Mapping() domain.CaseMapping {
	return u.mapping
}

// Transform implements ports.Transformer.
func (u *Upper) Transform(text string) string {
	switch u.mapping {
	case domain.ASCII:
		return ASCIIUpper(text)
	case domain.Full:
		return FullUpper(text)
	default:
		return SimpleUpper(text)
	}
}

// ASCIIUpper maps a-z to A-Z and leaves every other byte untouched.
func ASCIIUpper(text string) string {
	first := firstASCIILower(text)
	if first < 0 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = append(*buffer, text[:first]...)
	for i := first; i < len(text); i++ {
		b := text[i]
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		*buffer = append(*buffer, b)
	}
	return string(*buffer)
}

// SimpleUpper applies the Unicode simple uppercase mapping rune by rune.
// Invalid UTF-8 bytes are copied verbatim.
func SimpleUpper(text string) string {
	if len(text) == 0 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	for i := 0; i < len(text); {
		b := text[i]
		if b < utf8.RuneSelf {
			if 'a' <= b && b <= 'z' {
				b -= 'a' - 'A'
			}
			*buffer = append(*buffer, b)
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			*buffer = append(*buffer, b)
		} else {
			*buffer = utf8.AppendRune(*buffer, unicode.ToUpper(r))
		}
		i += size
	}
	return string(*buffer)
}

// FullUpper applies the root-locale Unicode full uppercase mapping, which
// may change the length of the text (for example ß becomes SS).
func FullUpper(text string) string {
	if len(text) == 0 {
		return text
	}
	if firstNonASCII(text) < 0 {
		return ASCIIUpper(text)
	}

	caser := caserPool.Get().(*cases.Caser)
	defer caserPool.Put(caser)

	return caser.String(text)
}

func firstASCIILower(text string) int {
	for i := 0; i < len(text); i++ {
		if 'a' <= text[i] && text[i] <= 'z' {
			return i
		}
	}
	return -1
}

func firstNonASCII(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return i
		}
	}
	return -1
}
