package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned without calling the provider while the
// breaker is open after repeated failures.
var ErrBreakerOpen = errors.New("speech synthesis temporarily disabled after repeated failures")

// BreakerProvider stops calling a failing provider for a cool-down period
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps provider so that failures consecutive failures
// open the breaker for timeout.
func NewBreakerProvider(provider Provider, failures uint32, timeout time.Duration, logger *log.Logger) *BreakerProvider {
	if failures == 0 {
		failures = 3
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}

	settings := gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Speech provider breaker changed state", "provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		provider: provider,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// GenerateAudio delegates to the wrapped provider unless the breaker is open
func (b *BreakerProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.provider.GenerateAudio(ctx, text, outputFile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", b.provider.Name(), ErrBreakerOpen)
	}
	return err
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.provider.Name()
}

// Format returns the wrapped provider's format, or empty when it accepts any
func (b *BreakerProvider) Format() string {
	return FormatOf(b.provider, "")
}

// IsAvailable reports the wrapped provider's availability
func (b *BreakerProvider) IsAvailable() error {
	return b.provider.IsAvailable()
}
