// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

package index

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/swiss"
)

func keyHash(k *string, seed uintptr) uintptr {
	return uintptr(xxhash.Sum64String(*k) ^ uint64(seed))
}

var blockMapOptions = []swiss.Option[string, []int32]{
	swiss.WithHash[string, []int32](keyHash),
}

// blockMap maps a block key to the records sharing it, in insertion order.
type blockMap struct {
	swiss.Map[string, []int32]
}

func newBlockMap(initialCapacity int) *blockMap {
	m := &blockMap{}
	m.Init(initialCapacity, blockMapOptions...)
	return m
}

func (m *blockMap) add(key string, record int32) {
	recs, _ := m.Get(key)
	m.Put(key, append(recs, record))
}
