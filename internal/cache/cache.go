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
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DiskStore is a disk-backed fallback tier, implemented in this package
// by badgerStore. A cache built without one simply skips this tier.
type DiskStore interface {
	Get(fp Fingerprint) ([]byte, bool, error)
	Put(fp Fingerprint, wire []byte) error
}

// RemoteStore is a remote-object fallback tier, implemented in this
// package by gcsStore.
type RemoteStore interface {
	Get(ctx context.Context, fp Fingerprint) ([]byte, bool, error)
	Put(ctx context.Context, fp Fingerprint, wire []byte) error
}

// Cache is the content-addressed compile cache: an in-memory LRU in
// front of optional disk and remote tiers. Cache is optional
// end-to-end — when a caller has none, every compile recomputes.
type Cache struct {
	lru    *lru.Cache[Fingerprint, []byte]
	disk   DiskStore
	remote RemoteStore
	log    *slog.Logger
}

// Option configures a Cache at construction.
type Option func(*Cache)

// WithDisk attaches a disk-backed fallback tier.
func WithDisk(d DiskStore) Option {
	return func(c *Cache) { c.disk = d }
}

// WithRemote attaches a remote-object fallback tier.
func WithRemote(r RemoteStore) Option {
	return func(c *Cache) { c.remote = r }
}

// WithLogger sets the logger used for fallback-tier diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New builds a Cache whose in-memory tier holds at most size entries,
// evicting least-recently-used on overflow.
func New(size int, opts ...Option) (*Cache, error) {
	l, err := lru.New[Fingerprint, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("cache: new lru: %w", err)
	}
	c := &Cache{lru: l, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get looks up the wire schema bytes for fp, checking the in-memory
// tier first, then disk, then remote. A hit in a lower tier is
// promoted back into the in-memory tier.
func (c *Cache) Get(ctx context.Context, fp Fingerprint) ([]byte, bool) {
	if wire, ok := c.lru.Get(fp); ok {
		return wire, true
	}
	if c.disk != nil {
		if wire, ok, err := c.disk.Get(fp); err != nil {
			c.log.WarnContext(ctx, "cache: disk tier read failed", "error", err)
		} else if ok {
			c.lru.Add(fp, wire)
			return wire, true
		}
	}
	if c.remote != nil {
		if wire, ok, err := c.remote.Get(ctx, fp); err != nil {
			c.log.WarnContext(ctx, "cache: remote tier read failed", "error", err)
		} else if ok {
			c.lru.Add(fp, wire)
			return wire, true
		}
	}
	return nil, false
}

// Put stores wire under fp in every configured tier. Disk and remote
// failures are logged, not returned: the in-memory tier is always
// authoritative for the current process.
func (c *Cache) Put(ctx context.Context, fp Fingerprint, wire []byte) {
	c.lru.Add(fp, wire)
	if c.disk != nil {
		if err := c.disk.Put(fp, wire); err != nil {
			c.log.WarnContext(ctx, "cache: disk tier write failed", "error", err)
		}
	}
	if c.remote != nil {
		if err := c.remote.Put(ctx, fp, wire); err != nil {
			c.log.WarnContext(ctx, "cache: remote tier write failed", "error", err)
		}
	}
}

// Len returns the number of entries currently held in the in-memory
// tier.
func (c *Cache) Len() int { return c.lru.Len() }
