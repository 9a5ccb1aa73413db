package utils

import (
	"time"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/covault/covault"
)

// Logging reports every transaction that passed through the stack to
// the structured logger, together with its duration and outcome.
type Logging struct{}

var _ covault.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs the result of the check. Failures log as errors,
// successes as debug since checks run on every mempool entry.
func (r Logging) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)

	logger := resultLogger(ctx, start, err)
	if err != nil {
		logger.Error("")
	} else {
		logger.Debug(res.Log)
	}
	return res, err
}

// Deliver logs the result of the delivery. Failures log as errors,
// successes as info.
func (r Logging) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)

	logger := resultLogger(ctx, start, err)
	if err != nil {
		logger.Error("")
	} else {
		logger.Info(res.Log)
	}
	return res, err
}

// resultLogger prepares the context logger with the call duration and
// the error if any. An entry without a message still carries these
// fields.
func resultLogger(ctx covault.Context, start time.Time, err error) log.Logger {
	logger := covault.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	if err != nil {
		logger = logger.With("err", err)
	}
	return logger
}
