package blackout

import (
	"context"
	"fmt"

	"github.com/oshokin/alarm-blackout/internal/config"
	"github.com/oshokin/alarm-blackout/internal/domain/alert"
	"github.com/oshokin/alarm-blackout/internal/logger"
	"github.com/oshokin/alarm-blackout/internal/plugin"
)

// suppressedReason is reported when an alert is dropped during a blackout.
const suppressedReason = "Suppressed alert during blackout period"

// PreReceive evaluates an incoming alert against active blackouts.
//
// Alerts outside a blackout pass unchanged. Alerts inside one get the
// suppressed status when NOTIFICATION_BLACKOUT is enabled (the default);
// otherwise the pipeline is stopped with plugin.ErrSuppressed and the alert
// must not be stored or forwarded.
func (h *Handler) PreReceive(ctx context.Context, a *alert.Alert) (*alert.Alert, error) {
	notify, err := h.settings.Bool(config.KeyNotificationBlackout, true)
	if err != nil {
		return nil, fmt.Errorf("resolve notification blackout: %w", err)
	}

	status, err := h.suppressedStatus()
	if err != nil {
		return nil, err
	}

	inBlackout, err := h.predicate.IsBlackout(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("check blackout for alert %s: %w", a.ID, err)
	}

	if !inBlackout {
		h.metrics.intake(outcomePassed)

		return a, nil
	}

	if notify {
		logger.DebugKV(ctx, "Set status during blackout period", "alert_id", a.ID, "status", status)
		a.Status = status
		h.metrics.intake(outcomeMuted)

		return a, nil
	}

	logger.DebugKV(ctx, "Suppressed alert during blackout period", "alert_id", a.ID)
	h.metrics.intake(outcomeSuppressed)

	return nil, plugin.Suppressed(suppressedReason)
}
