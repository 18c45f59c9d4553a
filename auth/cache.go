// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package auth

import (
	"context"
	"fmt"
	"sync"
)

// CachingCredentialsSource creates a new credentials source that wraps another
// and caches its results in memory, on a per-hostname basis.
//
// No means is provided for expiration of cached credentials, so a caching
// credentials source should have a limited lifetime to ensure that
// time-limited credentials don't expire before their cache entries do.
//
// The result also implements [CredentialsStore] by forwarding to the inner
// source, but the store and forget methods will fail with an error if the
// wrapped source does not also implement that interface.
func CachingCredentialsSource(source CredentialsSource) CredentialsSource {
	return &cachingCredentialsSource{
		source: source,
		cache:  map[Hostname]HostCredentials{},
	}
}

// CachingCredentialsStore is [CachingCredentialsSource] for a source that
// is known at compile time to be a [CredentialsStore].
func CachingCredentialsStore(store CredentialsStore) CredentialsStore {
	// cachingCredentialsSource always implements CredentialsStore.
	return CachingCredentialsSource(store).(CredentialsStore)
}

type cachingCredentialsSource struct {
	source CredentialsSource
	cache  map[Hostname]HostCredentials
	mu     sync.Mutex
}

// ForHost passes the given hostname on to the wrapped credentials source and
// caches the result to return for future requests with the same hostname.
//
// Both credentials and non-credentials (nil) responses are cached.
//
// No cache entry is created if the wrapped source returns an error, to allow
// the caller to retry the failing operation.
func (s *cachingCredentialsSource) ForHost(ctx context.Context, host Hostname) (HostCredentials, error) {
	s.mu.Lock()
	if cache, cached := s.cache[host]; cached {
		s.mu.Unlock()
		return cache, nil
	}
	s.mu.Unlock()

	result, err := s.source.ForHost(ctx, host)
	if err != nil {
		return result, err
	}

	s.mu.Lock()
	s.cache[host] = result
	s.mu.Unlock()
	return result, nil
}

func (s *cachingCredentialsSource) StoreForHost(ctx context.Context, host Hostname, credentials NewHostCredentials) error {
	// The entry goes even if the store fails, so the next read sees
	// whichever object the real store holds.
	s.mu.Lock()
	delete(s.cache, host)
	s.mu.Unlock()

	store, ok := s.source.(CredentialsStore)
	if !ok {
		return fmt.Errorf("no credentials store is available")
	}
	return store.StoreForHost(ctx, host, credentials)
}

func (s *cachingCredentialsSource) ForgetForHost(ctx context.Context, host Hostname) error {
	s.mu.Lock()
	delete(s.cache, host)
	s.mu.Unlock()

	store, ok := s.source.(CredentialsStore)
	if !ok {
		return fmt.Errorf("no credentials store is available")
	}
	return store.ForgetForHost(ctx, host)
}
