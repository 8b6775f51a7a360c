package engine

import (
	"errors"
	"fmt"

	"AgriPulse/internal/domain/models"
)

// ErrDataUnavailable marks a primary-signal query that returned no rows.
// It aborts the whole evaluation; no partial report is produced.
var ErrDataUnavailable = errors.New("engine: primary signal data unavailable")

// ErrNoAnchorPrice marks a missing current price. Forecasting without an
// anchor is disallowed, so this aborts the evaluation too.
var ErrNoAnchorPrice = errors.New("engine: no anchor price available")

// DataUnavailableError carries the failing signal name.
type DataUnavailableError struct {
	Signal models.SignalName
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("engine: no data for primary signal %s", e.Signal)
}

func (e *DataUnavailableError) Unwrap() error { return ErrDataUnavailable }
