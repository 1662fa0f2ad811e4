package spaces

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/pool"
)

var bufferPool = pool.NewBufferPool(256)

// asciiWhitespace marks the ASCII bytes removed by the ASCIIWhitespace class.
// Bytes below 0x80 never occur inside a multi-byte UTF-8 sequence, so a byte
// scan is safe for any input.
var asciiWhitespace = [utf8.RuneSelf]bool{
	' ':  true,
	'\t': true,
	'\n': true,
	'\v': true,
	'\f': true,
	'\r': true,
}

// Config holds configuration for the space remover.
type Config struct {
	Class domain.SpaceClass
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Class: domain.Space}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Class {
	case domain.Space, domain.ASCIIWhitespace, domain.UnicodeWhitespace:
		return nil
	default:
		return fmt.Errorf("%w: space class %d", domain.ErrInvalidPolicy, int(c.Class))
	}
}

// Remover deletes the configured class of space characters.
type Remover struct {
	class domain.SpaceClass
}

// NewRemover creates a new space remover.
func NewRemover(config Config) (*Remover, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Remover{class: config.Class}, nil
}

// Name implements ports.Transformer.
func (r *Remover) Name() string {
	return domain.RemoveSpaces.String()
}

// Class reports the configured space class.
func (r *Remover) Class() domain.SpaceClass {
	return r.class
}

// Transform implements ports.Transformer.
func (r *Remover) Transform(text string) string {
	switch r.class {
	case domain.ASCIIWhitespace:
		return RemoveASCIIWhitespace(text)
	case domain.UnicodeWhitespace:
		return RemoveUnicodeWhitespace(text)
	default:
		return RemoveSpace(text)
	}
}

// RemoveSpace deletes every U+0020. Every other byte is preserved.
func RemoveSpace(text string) string {
	return removeBytes(text, func(b byte) bool { return b == ' ' })
}

// RemoveASCIIWhitespace deletes space, tab, newline, vertical tab, form feed
// and carriage return.
func RemoveASCIIWhitespace(text string) string {
	return removeBytes(text, func(b byte) bool { return b < utf8.RuneSelf && asciiWhitespace[b] })
}

// RemoveUnicodeWhitespace deletes every rune for which unicode.IsSpace reports
// true. Invalid UTF-8 bytes are copied verbatim.
func RemoveUnicodeWhitespace(text string) string {
	out := removeUnicodeWhitespaceOnce(text)
	if len(out) == len(text) || utf8.ValidString(text) {
		return out
	}
	// Deleting a rune between invalid bytes can splice them into a new
	// whitespace rune, so invalid input is reduced to a fixed point.
	for {
		next := removeUnicodeWhitespaceOnce(out)
		if len(next) == len(out) {
			return out
		}
		out = next
	}
}

func removeUnicodeWhitespaceOnce(text string) string {
	first := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			first = i
			break
		}
	}
	if first < 0 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = append(*buffer, text[:first]...)
	for i := first; i < len(text); {
		b := text[i]
		if b < utf8.RuneSelf {
			if !asciiWhitespace[b] {
				*buffer = append(*buffer, b)
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || !unicode.IsSpace(r) {
			*buffer = append(*buffer, text[i:i+size]...)
		}
		i += size
	}
	return string(*buffer)
}

func removeBytes(text string, drop func(byte) bool) string {
	first := -1
	for i := 0; i < len(text); i++ {
		if drop(text[i]) {
			first = i
			break
		}
	}
	if first < 0 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = append(*buffer, text[:first]...)
	for i := first; i < len(text); i++ {
		if !drop(text[i]) {
			*buffer = append(*buffer, text[i])
		}
	}
	return string(*buffer)
}
