package reverse

import (
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/pool"
)

var bufferPool = pool.NewBufferPool(256)

// Config holds configuration for the reverser.
type Config struct {
	Unit domain.ReverseUnit
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{Unit: domain.Runes}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Unit {
	case domain.Runes, domain.Bytes, domain.Graphemes:
		return nil
	default:
		return fmt.Errorf("%w: reverse unit %d", domain.ErrInvalidPolicy, int(c.Unit))
	}
}

// Reverser reverses text by the configured unit.
type Reverser struct {
	unit domain.ReverseUnit
}

// NewReverser creates a new reverser.
func NewReverser(config Config) (*Reverser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Reverser{unit: config.Unit}, nil
}

// Name implements ports.Transformer.
func (r *Reverser) Name() string {
	return domain.Reverse.String()
}

// Unit reports the configured reverse unit.
func (r *Reverser) Unit() domain.ReverseUnit {
	return r.unit
}

// Transform implements ports.Transformer.
func (r *Reverser) Transform(text string) string {
	switch r.unit {
	case domain.Bytes:
		return ByBytes(text)
	case domain.Graphemes:
		return ByGraphemes(text)
	default:
		return ByRunes(text)
	}
}

// ByBytes reverses the raw bytes of text.
func ByBytes(text string) string {
	if len(text) < 2 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = (*buffer)[:len(text)]
	for i, j := 0, len(text)-1; j >= 0; i, j = i+1, j-1 {
		(*buffer)[i] = text[j]
	}
	return string(*buffer)
}

// ByRunes reverses text by code point. A maximal run of invalid UTF-8 bytes
// is moved as a single unit with its bytes in their original order, so
// ByRunes(ByRunes(s)) == s for every s and the length never changes.
func ByRunes(text string) string {
	if len(text) < 2 {
		return text
	}
	if isASCII(text) {
		return ByBytes(text)
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = (*buffer)[:len(text)]
	end := len(text)
	for i := 0; i < len(text); {
		size := unitSize(text[i:])
		end -= size
		copy((*buffer)[end:], text[i:i+size])
		i += size
	}
	return string(*buffer)
}

// ByGraphemes reverses text by extended grapheme cluster (UAX #29), keeping
// combining marks, CRLF pairs and emoji sequences intact.
func ByGraphemes(text string) string {
	if len(text) < 2 {
		return text
	}

	buffer := bufferPool.Get(len(text))
	defer bufferPool.Put(buffer)

	*buffer = (*buffer)[:len(text)]
	end := len(text)
	rest := text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end -= len(cluster)
		copy((*buffer)[end:], cluster)
	}
	return string(*buffer)
}

// unitSize returns the length of the leading rune of text, or of the whole
// run of invalid bytes when text starts with one. A run is always followed by
// ASCII or a lead byte, so moving it next to another rune cannot join the two
// into a valid sequence.
func unitSize(text string) int {
	if r, size := utf8.DecodeRuneInString(text); r != utf8.RuneError || size != 1 {
		return size
	}
	n := 1
	for n < len(text) {
		if r, size := utf8.DecodeRuneInString(text[n:]); r != utf8.RuneError || size != 1 {
			break
		}
		n++
	}
	return n
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
