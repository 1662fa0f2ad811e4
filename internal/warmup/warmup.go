package warmup

import (
	"context"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_string_processor/internal/ports"
)

// WarmupConfig defines configuration for warming up the transformers
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Stats summarises a warmup run.
type Stats struct {
	Calls    int64
	Duration time.Duration
}

// Manager exercises registered transformers from many goroutines so pools
// and lazily built tables are populated before real traffic arrives.
type Manager struct {
	logger       ports.Logger
	transformers []ports.Transformer
	config       WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterTransformer adds a transformer to be warmed up
func (wm *Manager) RegisterTransformer(t ports.Transformer) {
	wm.transformers = append(wm.transformers, t)
}

// WarmUp runs every registered transformer over generated sample text until
// the iterations are done, the configured duration elapses or ctx is cancelled.
func (wm *Manager) WarmUp(ctx context.Context) Stats {
	startTime := time.Now()
	wm.logger.Info("Starting warmup",
		"transformers", len(wm.transformers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	samples := []string{
		generateSampleText(wm.config.SampleTextSize),
		generateMixedText(wm.config.SampleTextSize),
		"",
	}

	calls := make([]int64, wm.config.Concurrency)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < wm.config.Concurrency; i++ {
		routineID := i
		g.Go(func() error {
			for j := 0; j < wm.config.Iterations; j++ {
				if gctx.Err() != nil {
					return nil
				}
				sample := samples[j%len(samples)]
				for _, t := range wm.transformers {
					_ = t.Transform(sample)
					calls[routineID]++
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	var total int64
	for _, c := range calls {
		total += c
	}
	stats := Stats{Calls: total, Duration: time.Since(startTime)}

	wm.logger.Info("Warmup completed",
		"calls", stats.Calls,
		"duration", stats.Duration,
	)
	return stats
}

// generateSampleText creates ASCII sample text of the specified size
func generateSampleText(size int) string {
	words := []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"hello", "world", "lorem", "ipsum", "dolor", "sit", "amet",
	}
	return repeatWords(words, size)
}

// generateMixedText creates sample text with multi-byte runes, combining
// marks and assorted whitespace so every code path gets exercised.
func generateMixedText(size int) string {
	words := []string{
		"straße", "café", "été", "日本語",
		"αβγ", "tab\there", "line\nbreak", "\U0001F44B\U0001F3FD",
	}
	return repeatWords(words, size)
}

func repeatWords(words []string, size int) string {
	if size <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(size + 16)
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i%len(words)])
	}
	return sb.String()
}
