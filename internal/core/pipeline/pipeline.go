package pipeline

import (
	"fmt"

	"github.com/baditaflorin/go_string_processor/internal/core/domain"
	"github.com/baditaflorin/go_string_processor/internal/ports"
)

// Pipeline resolves operations to transformers and applies them in order.
type Pipeline struct {
	transformers map[domain.Operation]ports.Transformer
}

// New creates a pipeline from one transformer per operation.
func New(reverser, upper, remover ports.Transformer) *Pipeline {
	return &Pipeline{
		transformers: map[domain.Operation]ports.Transformer{
			domain.Reverse:      reverser,
			domain.ToUpper:      upper,
			domain.RemoveSpaces: remover,
		},
	}
}

// Transformer returns the transformer registered for op.
func (p *Pipeline) Transformer(op domain.Operation) (ports.Transformer, error) {
	t, ok := p.transformers[op]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownOperation, op)
	}
	return t, nil
}

// Compile resolves every operation up front so that Run cannot fail halfway.
func (p *Pipeline) Compile(ops []domain.Operation) ([]ports.Transformer, error) {
	steps := make([]ports.Transformer, 0, len(ops))
	for _, op := range ops {
		t, err := p.Transformer(op)
		if err != nil {
			return nil, err
		}
		steps = append(steps, t)
	}
	return steps, nil
}

// Run applies steps left to right. No steps is the identity.
func Run(text string, steps []ports.Transformer) string {
	for _, step := range steps {
		text = step.Transform(text)
	}
	return text
}

// Apply compiles ops and runs them over text.
func (p *Pipeline) Apply(text string, ops ...domain.Operation) (string, error) {
	steps, err := p.Compile(ops)
	if err != nil {
		return "", err
	}
	return Run(text, steps), nil
}
