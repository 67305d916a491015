package worker

import (
	"context"
	"fmt"
	"time"

	"upi-checkout/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollAttempts = 50
)

// ReadinessMonitor waits for the externally loaded checkout widget to become
// usable by polling a probe on a fixed interval.
type ReadinessMonitor struct {
	interval    time.Duration
	maxAttempts int
	logger      *zap.SugaredLogger
}

func NewReadinessMonitor(interval time.Duration, maxAttempts int, logger *zap.SugaredLogger) *ReadinessMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollAttempts
	}
	return &ReadinessMonitor{
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// WaitForCapability probes once immediately and then once per interval.
// It returns nil on the first true probe and ErrCapabilityUnavailable after
// maxAttempts false probes. The probe is never called again after either.
func (m *ReadinessMonitor) WaitForCapability(ctx context.Context, probe func() bool) error {
	if probe() {
		m.logger.Infow("checkout widget loaded", "attempts", 1)
		return nil
	}
	if m.maxAttempts == 1 {
		return m.timedOut()
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for attempt := 2; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if probe() {
				m.logger.Infow("checkout widget loaded", "attempts", attempt)
				return nil
			}
			if attempt >= m.maxAttempts {
				return m.timedOut()
			}
		}
	}
}

func (m *ReadinessMonitor) timedOut() error {
	m.logger.Errorw("checkout widget failed to load",
		"attempts", m.maxAttempts,
		"waited", m.interval*time.Duration(m.maxAttempts-1),
	)
	return fmt.Errorf("%w: not loaded after %d attempts", domain.ErrCapabilityUnavailable, m.maxAttempts)
}
