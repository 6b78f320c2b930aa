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
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// diskKeyPrefix namespaces cache entries within a badger database that
// may be shared with other subsystems.
const diskKeyPrefix = "clewbraid:compile:"

// badgerStore is the optional DiskStore tier. Its on-disk format is not
// standardized — this is an implementation choice, not a wire contract.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an already-open badger database as a DiskStore.
// The caller owns db's lifecycle (open/close).
func NewBadgerStore(db *badger.DB) DiskStore {
	return &badgerStore{db: db}
}

func (s *badgerStore) Get(fp Fingerprint) ([]byte, bool, error) {
	var wire []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(diskKeyPrefix + hexKey(fp)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			wire = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: badger get: %w", err)
	}
	return wire, true, nil
}

func (s *badgerStore) Put(fp Fingerprint, wire []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(diskKeyPrefix+hexKey(fp)), wire)
	})
	if err != nil {
		return fmt.Errorf("cache: badger put: %w", err)
	}
	return nil
}
