// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := OpenKV(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKVSetGet(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Set("greeting", []byte(`"hello"`)))
	got, err := kv.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"hello"`), got)
}

func TestKVUpsertReplaces(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Set("k", []byte("one")))
	require.NoError(t, kv.Set("k", []byte("two")))

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestKVGetMissingKey(t *testing.T) {
	kv := newTestKV(t)

	_, err := kv.Get("nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKVDelete(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Set("k", []byte("v")))
	require.NoError(t, kv.Delete("k"))

	_, err := kv.Get("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, kv.Delete("k"))
}

func TestKVCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "onyx.db")
	kv, err := OpenKV(path)
	require.NoError(t, err)
	defer kv.Close()

	require.NoError(t, kv.Set("k", []byte("v")))
}

func TestKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onyx.db")

	kv, err := OpenKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set("k", []byte("survives")))
	require.NoError(t, kv.Close())

	kv, err = OpenKV(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}
