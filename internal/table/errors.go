package table

import "errors"

var (
	// ErrOutOfTurn is returned when an action arrives for a seat that is
	// not the current actor.
	ErrOutOfTurn = errors.New("table: action out of turn")

	// ErrInvalidStage is returned when an operation is not legal in the
	// table's current stage.
	ErrInvalidStage = errors.New("table: invalid stage for operation")

	// ErrNoBotPending is returned when a bot decision is supplied but no
	// seat is suspended waiting for one.
	ErrNoBotPending = errors.New("table: no bot decision pending")

	// ErrBadConfig is returned by New for out-of-range configuration.
	ErrBadConfig = errors.New("table: invalid configuration")
)
