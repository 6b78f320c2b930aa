// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/AleutianAI/clewbraid/internal/cache"
	"github.com/AleutianAI/clewbraid/internal/collaborator"
	"github.com/AleutianAI/clewbraid/internal/constraint"
	"github.com/AleutianAI/clewbraid/internal/cst"
	"github.com/AleutianAI/clewbraid/internal/orchestrator"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/spf13/pflag"
	"google.golang.org/api/option"
)

// collaboratorEnvVar names the environment variable carrying the
// semantic collaborator's API credential. This value must never be
// logged; it is read once and copied into a memguard-backed Credential
// (internal/collaborator), whose plaintext is handed to the
// chat-completion client only while that client is constructed.
const collaboratorEnvVar = "CLEWBRAID_COLLABORATOR_API_KEY"

// orchestratorOptions bundles the flags shared by extract/compile/
// inspect/serve for constructing an Orchestrator.
type orchestratorOptions struct {
	cacheDir        string
	cacheBucket     string
	cacheSize       int
	collaborator    bool
	collaboratorRPS float64
	model           string
	maxSourceBytes  int
}

func addOrchestratorFlags(flags *pflag.FlagSet, o *orchestratorOptions) {
	flags.StringVar(&o.cacheDir, "cache-dir", "", "badger directory for an on-disk compile-cache tier (optional)")
	flags.StringVar(&o.cacheBucket, "cache-bucket", "", "GCS bucket for a shared remote compile-cache tier (optional)")
	flags.IntVar(&o.cacheSize, "cache-size", 256, "in-memory LRU compile-cache capacity")
	flags.BoolVar(&o.collaborator, "collaborator", false, "enable the semantic collaborator (reads "+collaboratorEnvVar+")")
	flags.Float64Var(&o.collaboratorRPS, "collaborator-rps", 1.0, "requests/second the collaborator is paced at")
	flags.StringVar(&o.model, "model", "gpt-4o-mini", "chat-completion model the collaborator uses")
}

// buildOrchestrator constructs an Orchestrator from the shared flags.
// The returned close func must be called to release any badger or GCS
// handle opened for a cache tier.
func buildOrchestrator(o orchestratorOptions) (*orchestrator.Orchestrator, func() error, error) {
	var closers []func() error
	closeFn := func() error {
		var firstErr error
		for _, cl := range closers {
			if err := cl(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	var opts []orchestrator.Option

	var cacheOpts []cache.Option
	if o.cacheDir != "" {
		db, err := badger.Open(badger.DefaultOptions(o.cacheDir))
		if err != nil {
			return nil, closeFn, fmt.Errorf("open badger cache dir %q: %w", o.cacheDir, err)
		}
		closers = append(closers, db.Close)
		cacheOpts = append(cacheOpts, cache.WithDisk(cache.NewBadgerStore(db)))
	}
	if o.cacheBucket != "" {
		client, err := storage.NewClient(context.Background(), option.WithScopes(storage.ScopeReadWrite))
		if err != nil {
			return nil, closeFn, fmt.Errorf("new gcs client for cache bucket %q: %w", o.cacheBucket, err)
		}
		closers = append(closers, client.Close)
		cacheOpts = append(cacheOpts, cache.WithRemote(cache.NewGCSStore(client.Bucket(o.cacheBucket))))
	}
	c, err := cache.New(o.cacheSize, cacheOpts...)
	if err != nil {
		return nil, closeFn, fmt.Errorf("new cache: %w", err)
	}
	opts = append(opts, orchestrator.WithCache(c))

	if o.maxSourceBytes > 0 {
		opts = append(opts, orchestrator.WithParseOptions(cst.ParseOptions{MaxSourceBytes: o.maxSourceBytes}))
	}

	if o.collaborator {
		key := os.Getenv(collaboratorEnvVar)
		if key == "" {
			return nil, closeFn, fmt.Errorf("%s is not set but --collaborator was requested", collaboratorEnvVar)
		}
		cred := collaborator.NewCredential([]byte(key))
		lc, err := collaborator.NewLangChain(cred, o.model, collaborator.WithRequestsPerSecond(o.collaboratorRPS))
		if err != nil {
			return nil, closeFn, fmt.Errorf("new langchain collaborator: %w", err)
		}
		opts = append(opts, orchestrator.WithCollaborator(lc))
	}

	orch, err := orchestrator.New(opts...)
	if err != nil {
		return nil, closeFn, fmt.Errorf("new orchestrator: %w", err)
	}
	return orch, closeFn, nil
}

// constraintSetDocument is the on-disk JSON shape extract writes and
// compile/inspect read: a named, ordered constraint set.
type constraintSetDocument struct {
	Name        string                  `json:"name"`
	Constraints []constraint.Constraint `json:"constraints"`
}

func loadConstraintSet(path string) (*constraint.ConstraintSet, error) {
	r, closeFn, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var doc constraintSetDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode constraint set: %w", err)
	}
	set := constraint.NewConstraintSet(doc.Name)
	set.Constraints = doc.Constraints
	return set, nil
}

func writeConstraintSet(path string, set *constraint.ConstraintSet) error {
	doc := constraintSetDocument{Name: set.Name, Constraints: set.Constraints}
	return writeJSON(path, doc)
}

// openInput opens path for reading, or stdin when path is "" or "-".
func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, f.Close, nil
}

// writeJSON marshals v as indented JSON to path, or stdout when path
// is "" or "-".
func writeJSON(path string, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	pretty = append(pretty, '\n')

	if path == "" || path == "-" {
		_, err := os.Stdout.Write(pretty)
		return err
	}
	return os.WriteFile(path, pretty, 0o644)
}
