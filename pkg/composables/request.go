package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/harborcredit/loanscreen/modules/directory/domain/aggregates/officer"
	"github.com/harborcredit/loanscreen/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, falling back to a plain entry
// so callers never receive nil.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger.(*logrus.Entry)
}

func WithActor(ctx context.Context, a officer.Actor) context.Context {
	return context.WithValue(ctx, constants.ActorKey, a)
}

func UseActor(ctx context.Context) (officer.Actor, error) {
	a := ctx.Value(constants.ActorKey)
	if a == nil {
		return officer.Actor{}, ErrNoActor
	}
	return a.(officer.Actor), nil
}
