// pool.go: Scratch buffer pooling sized for the codec's working set.
//
// Copyright (c) 2025 Quarkshare
// SPDX-License-Identifier: MPL-2.0

package streamcrypt

import (
	"sync"
)

// Buffer tiers match the codec's fixed working set: one tier for nonces,
// tags, and keys, one for a plaintext/ciphertext chunk, and one for a sealed
// chunk (ciphertext plus tag).
const (
	smallBufferSize  = 32
	chunkBufferSize  = ChunkSize
	sealedBufferSize = ChunkSize + TagSize
)

var (
	smallBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, smallBufferSize)
			return &buf
		},
	}

	chunkBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, chunkBufferSize)
			return &buf
		},
	}

	sealedBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, sealedBufferSize)
			return &buf
		},
	}
)

func init() {
	// Pre-warm pools so the first Encrypt/Decrypt call does not pay the
	// allocation cost. Conservative count to keep startup cheap.
	warmupPools(2)
}

// getBuffer leases a buffer of the requested size from the smallest tier
// that can hold it. Sizes beyond the sealed tier are allocated directly.
func getBuffer(size int) *[]byte {
	switch {
	case size <= smallBufferSize:
		buf := smallBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	case size <= chunkBufferSize:
		buf := chunkBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	case size <= sealedBufferSize:
		buf := sealedBufferPool.Get().(*[]byte)
		*buf = (*buf)[:size]
		return buf
	default:
		buf := make([]byte, size)
		return &buf
	}
}

// clearBuffer zeroes a buffer before it returns to a pool. Buffers hold key
// material and plaintext, so nothing may leak to the next lease.
func clearBuffer(buf []byte) {
	if len(buf) <= 64 {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	// Unroll 8 stores per iteration for cache-line throughput on the
	// chunk-sized tiers.
	i := 0
	for i < len(buf)-7 {
		buf[i] = 0
		buf[i+1] = 0
		buf[i+2] = 0
		buf[i+3] = 0
		buf[i+4] = 0
		buf[i+5] = 0
		buf[i+6] = 0
		buf[i+7] = 0
		i += 8
	}
	for i < len(buf) {
		buf[i] = 0
		i++
	}
}

// putBuffer zeroes a leased buffer and returns it to its tier. Buffers of
// non-tier capacity came from a direct allocation and are left to the GC.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}

	if len(*buf) > 0 {
		clearBuffer((*buf)[:cap(*buf)])
	}

	switch cap(*buf) {
	case smallBufferSize:
		smallBufferPool.Put(buf)
	case chunkBufferSize:
		chunkBufferPool.Put(buf)
	case sealedBufferSize:
		sealedBufferPool.Put(buf)
	}
}

// warmupPools pre-allocates buffers in every tier to reduce cold latency.
func warmupPools(count int) {
	small := make([]*[]byte, count)
	chunk := make([]*[]byte, count)
	sealed := make([]*[]byte, count)

	for i := 0; i < count; i++ {
		small[i] = getBuffer(smallBufferSize)
		chunk[i] = getBuffer(chunkBufferSize)
		sealed[i] = getBuffer(sealedBufferSize)
	}
	for i := 0; i < count; i++ {
		putBuffer(small[i])
		putBuffer(chunk[i])
		putBuffer(sealed[i])
	}
}
