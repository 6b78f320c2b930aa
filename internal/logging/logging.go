// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging holds the handful of slog conveniences shared by every
// clewbraid package: a context-carried logger and a process-wide default
// configured once by cmd/clewbraid.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// Default is the process-wide logger used when no logger has been attached
// to a context. cmd/clewbraid replaces it at startup via SetDefault.
var Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetDefault replaces the process-wide default logger.
func SetDefault(l *slog.Logger) {
	Default = l
}

// WithLogger returns a context carrying l, retrievable with FromContext.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or Default if none was
// attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return Default
}
