// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package persist

// crcTable is the CRC-8/NRSC-5 lookup table: polynomial 0x31, no reflection.
var crcTable = func() (t [256]byte) {
	for i := range t {
		c := byte(i)
		for j := 0; j < 8; j++ {
			c = c<<1 ^ 0x31*(c>>7)
		}
		t[i] = c
	}
	return t
}()

// CRC8 is the checksum stored next to each record. It starts from 0xff, so
// an empty value does not checksum to zero.
func CRC8(b []byte) byte {
	c := byte(0xff)
	for _, v := range b {
		c = crcTable[c^v]
	}
	return c
}
