// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

// Encode7Bit packs text into the 7-bit default alphabet used by the
// network name IE. Returns the packed octets and the number of spare bits
// in the last octet.
func Encode7Bit(text string) ([]byte, int) {
	septets := []byte(text)
	outLen := (len(septets)*7 + 7) / 8
	out := make([]byte, outLen)
	bitpos := 0
	for _, s := range septets {
		v := uint16(s&0x7f) << (bitpos % 8)
		idx := bitpos / 8
		out[idx] |= byte(v)
		if v>>8 != 0 && idx+1 < outLen {
			out[idx+1] |= byte(v >> 8)
		}
		bitpos += 7
	}
	pad := (8 - (len(septets)*7)%8) % 8
	return out, pad
}
