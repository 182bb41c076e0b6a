// Copyright (c) 2025 the dropcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package simruntime is a test-only stand-in for the host account store: a
// goleveldb-backed byte store keyed by account address, with an LRU decode
// cache in front of it so a multi-transaction integration test (publish,
// several claims, a close attempt) doesn't pay a fresh gob decode for the
// same ChannelState on every step. Nothing in engine, channelstate, claim or
// protocolstate imports this package — the core has no notion of storage at
// all, exactly as spec.md requires ("no persisted file layout").
package simruntime

import (
	"bytes"
	"encoding/gob"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/streamforge/dropcore/chaincfg"
	"github.com/streamforge/dropcore/chainhash"
	"github.com/streamforge/dropcore/channelstate"
	"github.com/streamforge/dropcore/keys"
	"github.com/streamforge/dropcore/protocolstate"
)

// Store is an opened goleveldb database keyed by 32-byte account address,
// the same role the teacher's database.DB interface plays for real chain
// state, scoped down to exactly the two account kinds this engine has.
type Store struct {
	db    *leveldb.DB
	cache *decodeCache
}

// Open creates or reopens a simruntime store at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: newDecodeCache(cacheSize)}, nil
}

// Close releases the underlying goleveldb handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutProtocolState persists a ProtocolState under its account key.
func (s *Store) PutProtocolState(account keys.Pubkey, ps *protocolstate.State) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(ps); err != nil {
		return err
	}
	return s.db.Put(account.Bytes(), buf.Bytes(), nil)
}

// GetProtocolState loads a ProtocolState, returning (nil, nil) if the
// account has never been written.
func (s *Store) GetProtocolState(account keys.Pubkey) (*protocolstate.State, error) {
	raw, err := s.db.Get(account.Bytes(), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ps protocolstate.State
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&ps); err != nil {
		return nil, err
	}
	return &ps, nil
}

// PutChannelState persists a ChannelState under its account key and
// refreshes the decode cache entry so the next read skips the gob decode.
func (s *Store) PutChannelState(account keys.Pubkey, cs *channelstate.State) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cs); err != nil {
		return err
	}
	if err := s.db.Put(account.Bytes(), buf.Bytes(), nil); err != nil {
		return err
	}
	s.cache.put(cs.ChannelKey, cs)
	return nil
}

// GetChannelState loads a ChannelState, consulting the decode cache first.
// params binds the deployment constants a freshly-decoded State doesn't
// carry on the wire (see channelstate.State.BindParams) — a cache hit
// already carries whatever params it was Put with. Returns (nil, nil) if
// the account has never been written.
func (s *Store) GetChannelState(account keys.Pubkey, channelKey chainhash.Hash, params chaincfg.Params) (*channelstate.State, error) {
	if cached, ok := s.cache.get(channelKey); ok {
		return cached, nil
	}

	raw, err := s.db.Get(account.Bytes(), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cs channelstate.State
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&cs); err != nil {
		return nil, err
	}
	cs.BindParams(params)
	s.cache.put(channelKey, &cs)
	return &cs, nil
}

// Delete removes an account's bytes (used by close_channel_state, which
// reclaims the ChannelState account).
func (s *Store) Delete(account keys.Pubkey, channelKey chainhash.Hash) error {
	s.cache.delete(channelKey)
	return s.db.Delete(account.Bytes(), nil)
}
