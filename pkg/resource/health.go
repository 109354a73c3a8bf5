// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-slingshot/pkg/health"
)

// HealthCheck reports the manager as unready while shutting down or when
// no session slot is free.
func (m *SessionManager) HealthCheck() health.Check {
	return health.NewCheck("sessions", func(ctx context.Context) error {
		if m.Closing() {
			return ErrShuttingDown
		}
		stats := m.Stats()
		if stats.Active >= stats.Max {
			return fmt.Errorf("%w: %d/%d", ErrCapacity, stats.Active, stats.Max)
		}
		return nil
	})
}
