// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FileCredentialsStore returns a [CredentialsStore] that keeps credentials
// in a JSON file of the following form:
//
//	{
//	  "credentials": {
//	    "api.example.com": {"token": "abc123"}
//	  }
//	}
//
// The file is read on every lookup, so wrap the result with
// [CachingCredentialsStore] when it is consulted for many requests. A
// missing file is the same as one with no credentials, and the first
// [CredentialsStore.StoreForHost] creates it with mode 0600.
func FileCredentialsStore(filename string) CredentialsStore {
	return &fileCredentialsStore{filename: filename}
}

type fileCredentialsStore struct {
	filename string

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

var _ CredentialsStore = (*fileCredentialsStore)(nil)

func (s *fileCredentialsStore) ForHost(_ context.Context, host Hostname) (HostCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hosts, err := s.load()
	if err != nil {
		return nil, err
	}
	obj, ok := hosts[string(storeKey(host))]
	if !ok {
		return nil, nil
	}
	return HostCredentialsFromObject(obj), nil
}

func (s *fileCredentialsStore) StoreForHost(_ context.Context, host Hostname, credentials NewHostCredentials) error {
	obj := credentials.ToStore()
	if !obj.Type().IsObjectType() {
		return fmt.Errorf("credentials for %s are not an object", host.ForDisplay())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hosts, err := s.load()
	if err != nil {
		return err
	}
	hosts[string(storeKey(host))] = obj
	return s.save(hosts)
}

func (s *fileCredentialsStore) ForgetForHost(_ context.Context, host Hostname) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hosts, err := s.load()
	if err != nil {
		return err
	}
	key := string(storeKey(host))
	if _, ok := hosts[key]; !ok {
		return nil
	}
	delete(hosts, key)
	return s.save(hosts)
}

func (s *fileCredentialsStore) load() (map[string]cty.Value, error) {
	ret := map[string]cty.Value{}

	src, err := os.ReadFile(s.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return ret, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	ty, err := ctyjson.ImpliedType(src)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file %s: %w", s.filename, err)
	}
	doc, err := ctyjson.Unmarshal(src, ty)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file %s: %w", s.filename, err)
	}
	if !doc.Type().IsObjectType() {
		return nil, fmt.Errorf("invalid credentials file %s: must be a JSON object", s.filename)
	}
	if !doc.Type().HasAttribute("credentials") {
		return ret, nil
	}

	creds := doc.GetAttr("credentials")
	if creds.IsNull() {
		return ret, nil
	}
	if !creds.Type().IsObjectType() {
		return nil, fmt.Errorf("invalid credentials file %s: \"credentials\" must be a JSON object", s.filename)
	}
	for host, obj := range creds.AsValueMap() {
		ret[host] = obj
	}
	return ret, nil
}

func (s *fileCredentialsStore) save(hosts map[string]cty.Value) error {
	doc := cty.ObjectVal(map[string]cty.Value{
		"credentials": cty.ObjectVal(hosts),
	})
	src, err := ctyjson.Marshal(doc, doc.Type())
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	// Replace the file atomically.
	tmp, err := os.CreateTemp(filepath.Dir(s.filename), ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filename); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// storeKey is the comparison form of host, or host itself if it has none.
func storeKey(host Hostname) Hostname {
	if normalized, err := ForComparison(string(host)); err == nil {
		return normalized
	}
	return host
}
