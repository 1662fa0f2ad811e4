// Package stringprocessor provides three pure text transformations: reverse,
// uppercase and space removal.
//
// Every operation is total: it accepts any string, including the empty string
// and invalid UTF-8, and never fails. A StringProcessor holds only immutable
// policies fixed at construction, so one value can be shared freely between
// goroutines. The package-level functions use the default policies:
//
//   - Reverse reorders code points. Invalid UTF-8 bytes move as single bytes.
//   - ToUpper applies the Unicode simple uppercase mapping.
//   - RemoveSpaces deletes U+0020 only.
package stringprocessor

import (
	"context"

	"github.com/baditaflorin/go_string_processor/internal/adapters/logger"
	"github.com/baditaflorin/go_string_processor/internal/core/casing"
	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/core/pipeline"
	"github.com/baditaflorin/go_string_processor/internal/core/reverse"
	"github.com/baditaflorin/go_string_processor/internal/core/spaces"
	"github.com/baditaflorin/go_string_processor/internal/ports"
	"github.com/baditaflorin/go_string_processor/internal/warmup"
)

// Logger is the structured key/value logger used by a StringProcessor.
type Logger = ports.Logger

// Transformer applies one configured operation.
type Transformer = ports.Transformer

// WarmupConfig bounds a warm-up run.
type WarmupConfig = warmup.WarmupConfig

// WarmupStats summarises a warm-up run.
type WarmupStats = warmup.Stats

// DefaultWarmupConfig returns the default warm-up configuration.
func DefaultWarmupConfig() WarmupConfig {
	return warmup.DefaultWarmupConfig()
}

// Operation identifies one of the transformations.
type Operation = domain.Operation

// Operations accepted by Apply.
const (
	OpReverse      = domain.Reverse
	OpToUpper      = domain.ToUpper
	OpRemoveSpaces = domain.RemoveSpaces
)

// ReverseUnit selects what Reverse reorders.
type ReverseUnit = domain.ReverseUnit

// Reverse units.
const (
	Runes     = domain.Runes
	Bytes     = domain.Bytes
	Graphemes = domain.Graphemes
)

// CaseMapping selects the uppercase table.
type CaseMapping = domain.CaseMapping

// Case mappings.
const (
	SimpleCase = domain.Simple
	ASCIICase  = domain.ASCII
	FullCase   = domain.Full
)

// SpaceClass selects which characters RemoveSpaces deletes.
type SpaceClass = domain.SpaceClass

// Space classes.
const (
	SpaceOnly         = domain.Space
	ASCIIWhitespace   = domain.ASCIIWhitespace
	UnicodeWhitespace = domain.UnicodeWhitespace
)

// Errors reported by parsing and option validation.
var (
	ErrUnknownOperation = domain.ErrUnknownOperation
	ErrInvalidPolicy    = domain.ErrInvalidPolicy
)

// ParseOperations parses a comma separated list such as "upper,reverse".
func ParseOperations(list string) ([]Operation, error) {
	return domain.ParseOperations(list)
}

// Reverse reverses text by code point using the default policy.
func Reverse(text string) string {
	return reverse.ByRunes(text)
}

// ToUpper uppercases text with the Unicode simple mapping.
func ToUpper(text string) string {
	return casing.SimpleUpper(text)
}

// RemoveSpaces deletes every U+0020 from text.
func RemoveSpaces(text string) string {
	return spaces.RemoveSpace(text)
}

// StringProcessor applies the text transformations with configurable policies.
type StringProcessor struct {
	reverser *reverse.Reverser
	upper    *casing.Upper
	remover  *spaces.Remover
	pipeline *pipeline.Pipeline
	logger   Logger
}

// Option defines a functional option for configuring a StringProcessor.
type Option func(*config)

type config struct {
	ReverseUnit  ReverseUnit
	CaseMapping  CaseMapping
	SpaceClass   SpaceClass
	Logger       Logger
	WarmUp       bool
	WarmUpConfig WarmupConfig
}

// WithReverseUnit sets the unit Reverse operates on.
func WithReverseUnit(unit ReverseUnit) Option {
	return func(cfg *config) {
		cfg.ReverseUnit = unit
	}
}

// WithCaseMapping sets the uppercase table.
func WithCaseMapping(mapping CaseMapping) Option {
	return func(cfg *config) {
		cfg.CaseMapping = mapping
	}
}

// WithSpaceClass sets which characters RemoveSpaces deletes.
func WithSpaceClass(class SpaceClass) Option {
	return func(cfg *config) {
		cfg.SpaceClass = class
	}
}

// WithLogger sets a custom logger. The default discards everything.
func WithLogger(log Logger) Option {
	return func(cfg *config) {
		cfg.Logger = log
	}
}

// WithWarmUp enables warm-up on construction.
func WithWarmUp(enable bool) Option {
	return func(cfg *config) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration and enables warm-up.
func WithWarmUpConfig(wc WarmupConfig) Option {
	return func(cfg *config) {
		cfg.WarmUpConfig = wc
		cfg.WarmUp = true
	}
}

// New creates a StringProcessor. Without options it behaves exactly like the
// package-level functions. It fails only when an option names an unknown policy.
func New(opts ...Option) (*StringProcessor, error) {
	cfg := &config{
		ReverseUnit:  reverse.DefaultConfig().Unit,
		CaseMapping:  casing.DefaultConfig().Mapping,
		SpaceClass:   spaces.DefaultConfig().Class,
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	reverser, err := reverse.NewReverser(reverse.Config{Unit: cfg.ReverseUnit})
	if err != nil {
		return nil, err
	}
	upper, err := casing.NewUpper(casing.Config{Mapping: cfg.CaseMapping})
	if err != nil {
		return nil, err
	}
	remover, err := spaces.NewRemover(spaces.Config{Class: cfg.SpaceClass})
	if err != nil {
		return nil, err
	}

	sp := &StringProcessor{
		reverser: reverser,
		upper:    upper,
		remover:  remover,
		pipeline: pipeline.New(reverser, upper, remover),
		logger:   cfg.Logger,
	}

	sp.logger.Debug("String processor created",
		"reverse_unit", cfg.ReverseUnit.String(),
		"case_mapping", cfg.CaseMapping.String(),
		"space_class", cfg.SpaceClass.String(),
	)

	if cfg.WarmUp {
		sp.WarmUp(context.Background(), cfg.WarmUpConfig)
	}

	return sp, nil
}

// Reverse reverses text by the configured unit.
func (sp *StringProcessor) Reverse(text string) string {
	return sp.reverser.Transform(text)
}

// ToUpper uppercases text with the configured mapping.
func (sp *StringProcessor) ToUpper(text string) string {
	return sp.upper.Transform(text)
}

// RemoveSpaces deletes the configured class of space characters.
func (sp *StringProcessor) RemoveSpaces(text string) string {
	return sp.remover.Transform(text)
}

// Apply runs ops over text from left to right. With no ops it returns text
// unchanged. It fails only for an Operation value outside the defined set.
func (sp *StringProcessor) Apply(text string, ops ...Operation) (string, error) {
	out, err := sp.pipeline.Apply(text, ops...)
	if err != nil {
		sp.logger.Warn("Rejected operation list", "error", err)
		return "", err
	}
	sp.logger.Debug("Applied operations",
		"operations", len(ops),
		"input_length", len(text),
		"output_length", len(out),
	)
	return out, nil
}

// Transformer returns the configured transformer for op.
func (sp *StringProcessor) Transformer(op Operation) (Transformer, error) {
	return sp.pipeline.Transformer(op)
}

// WarmUp exercises all three transformers concurrently.
func (sp *StringProcessor) WarmUp(ctx context.Context, wc WarmupConfig) WarmupStats {
	mgr := warmup.NewManager(sp.logger, wc)
	mgr.RegisterTransformer(sp.reverser)
	mgr.RegisterTransformer(sp.upper)
	mgr.RegisterTransformer(sp.remover)
	return mgr.WarmUp(ctx)
}
