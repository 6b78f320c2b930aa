// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// remoteObjectPrefix namespaces cache entries within a bucket that may
// be shared with other subsystems.
const remoteObjectPrefix = "clewbraid/compile/"

// gcsStore is the optional RemoteStore tier, the slowest and most
// durable of the three (the in-memory tier's size bound doesn't apply
// here; this one exists for cross-process/cross-machine sharing).
type gcsStore struct {
	bucket *storage.BucketHandle
}

// NewGCSStore wraps an already-authenticated bucket handle as a
// RemoteStore.
func NewGCSStore(bucket *storage.BucketHandle) RemoteStore {
	return &gcsStore{bucket: bucket}
}

func (s *gcsStore) Get(ctx context.Context, fp Fingerprint) ([]byte, bool, error) {
	r, err := s.bucket.Object(remoteObjectPrefix + hexKey(fp)).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: gcs get: %w", err)
	}
	defer r.Close()

	wire, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("cache: gcs read: %w", err)
	}
	return wire, true, nil
}

func (s *gcsStore) Put(ctx context.Context, fp Fingerprint, wire []byte) error {
	w := s.bucket.Object(remoteObjectPrefix + hexKey(fp)).NewWriter(ctx)
	if _, err := w.Write(wire); err != nil {
		_ = w.Close()
		return fmt.Errorf("cache: gcs write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cache: gcs close: %w", err)
	}
	return nil
}
