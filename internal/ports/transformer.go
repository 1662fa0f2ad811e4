package ports

// Transformer applies a single text transformation.
// Implementations must be safe for concurrent use.
type Transformer interface {
	Name() string
	Transform(text string) string
}
