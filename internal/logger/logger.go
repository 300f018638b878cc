// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger provides request-scoped structured logging for the
// search server.
package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

// RequestIDKey carries the per-request ID through context.
const RequestIDKey ctxKey = "requestId"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
}

// For returns a log entry tagged with the request ID from ctx, or a plain
// entry when the context carries none.
func For(ctx context.Context) *logrus.Entry {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("request_id", id)
}

// ContextWithID returns ctx tagged with a request ID.
func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// slowThreshold marks operations worth a warning instead of an info line.
const slowThreshold = 500 * time.Millisecond

// Track logs the duration of an operation when the returned function runs.
//
//	defer logger.Track(ctx, "search")()
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())

		if dur > slowThreshold {
			entry.Warnf("%s completed (slow)", msg)
		} else {
			entry.Infof("%s completed", msg)
		}
	}
}
