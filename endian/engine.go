// Package endian provides byte order utilities for encoding and decoding the
// graph file format.
//
// Every multi-byte integer in a fabricdb file is stored big-endian, regardless
// of the host byte order. This package extends Go's standard encoding/binary
// package by combining ByteOrder and AppendByteOrder into a unified Engine
// interface, and adds the signed and floating-point helpers the record codecs
// need: int64 and float64 values travel through their bit-exact uint64
// representation.
//
// # Basic Usage
//
//	engine := endian.Big()
//	engine.PutUint32(buf[0:4], labelID)
//	id := engine.Uint32(buf[0:4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned Engine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface for convenient byte order operations.
//
// The interface is satisfied by binary.BigEndian and binary.LittleEndian,
// keeping it fully compatible with existing Go code.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Big returns the big-endian engine used for all on-disk integers.
func Big() Engine {
	return binary.BigEndian
}

// Host uses a fixed integer value to determine the host's byte order.
func Host() binary.ByteOrder {
	// 0x0100 is 256. On a little-endian host the LSB (0x00) is first,
	// on a big-endian host the MSB (0x01) is first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsHostBigEndian reports whether the host stores integers big-endian, in
// which case the on-disk and in-memory representations coincide.
func IsHostBigEndian() bool {
	return Host() == binary.BigEndian
}

// PutInt64 writes a signed 64-bit value big-endian through its bit-exact
// unsigned representation.
func PutInt64(b []byte, v int64) {
	binary.BigEndian.PutUint64(b, uint64(v))
}

// Int64 reads a signed 64-bit value written by PutInt64.
func Int64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

// PutFloat64 writes an IEEE-754 double big-endian through its bit pattern.
func PutFloat64(b []byte, v float64) {
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
}

// Float64 reads an IEEE-754 double written by PutFloat64.
func Float64(b []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}
