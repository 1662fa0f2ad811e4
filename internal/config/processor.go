package config

import (
	stringprocessor "github.com/baditaflorin/go_string_processor"
)

// Options converts the processor section into functional options.
func (p ProcessorConfig) Options() ([]stringprocessor.Option, error) {
	unit, mapping, class, err := p.Policies()
	if err != nil {
		return nil, err
	}
	return []stringprocessor.Option{
		stringprocessor.WithReverseUnit(unit),
		stringprocessor.WithCaseMapping(mapping),
		stringprocessor.WithSpaceClass(class),
		stringprocessor.WithWarmUp(p.WarmUp),
	}, nil
}
