// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package retry

import (
	"context"
	"errors"
	"net"
	"os"
)

// retryableStatus is the set of HTTP/gRPC-adjacent status codes a
// semantic collaborator call may return that are worth retrying.
var retryableStatus = map[int]bool{
	408: true, // request timeout
	425: true, // too early
	429: true, // rate limited
	500: true,
	502: true,
	503: true,
	504: true,
}

// IsRetryableStatus reports whether an HTTP status code returned by a
// collaborator backend indicates a transient failure worth retrying.
func IsRetryableStatus(code int) bool {
	return retryableStatus[code]
}

// IsRetryableError reports whether err represents a transient failure:
// a network timeout, a closed/reset connection, or context.DeadlineExceeded.
// context.Canceled is never retryable: the caller asked to stop.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || isConnReset(err)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	return isConnReset(err)
}

func isConnReset(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
