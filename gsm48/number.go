// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

import "strings"

// Number is a called/calling/connected/redirecting party number with its
// type-of-number and numbering-plan octets.
type Number struct {
	Type    uint8
	Plan    uint8
	Present uint8
	Screen  uint8
	Number  string
}

const bcdAlphabet = "0123456789*#abc"

func bcdFromChar(c byte) (uint8, bool) {
	idx := strings.IndexByte(bcdAlphabet, c)
	if idx < 0 {
		return 0, false
	}
	return uint8(idx), true
}

func charFromBCD(n uint8) byte {
	if int(n) < len(bcdAlphabet) {
		return bcdAlphabet[n]
	}
	return '?'
}

func encodeBCDDigits(number string) ([]byte, error) {
	var out []byte
	for i := 0; i < len(number); i += 2 {
		lo, ok := bcdFromChar(number[i])
		if !ok {
			return nil, ErrBadDigits
		}
		oct := lo
		if i+1 < len(number) {
			hi, ok := bcdFromChar(number[i+1])
			if !ok {
				return nil, ErrBadDigits
			}
			oct |= hi << 4
		} else {
			oct |= 0xf0
		}
		out = append(out, oct)
	}
	return out, nil
}

func decodeBCDDigits(data []byte) string {
	var sb strings.Builder
	for _, oct := range data {
		sb.WriteByte(charFromBCD(oct & 0x0f))
		if oct>>4 != 0x0f {
			sb.WriteByte(charFromBCD(oct >> 4))
		}
	}
	return sb.String()
}

// EncodeCalled writes a called-party BCD number IE (no presentation
// octet).
func EncodeCalled(m *Builder, tag uint8, n *Number) error {
	digits, err := encodeBCDDigits(n.Number)
	if err != nil {
		return err
	}
	v := make([]byte, 0, 1+len(digits))
	v = append(v, 0x80|n.Type<<4|n.Plan)
	v = append(v, digits...)
	m.PutTLV(tag, v)
	return nil
}

// EncodeCallerID writes a number IE carrying presentation and screening.
func EncodeCallerID(m *Builder, tag uint8, n *Number) error {
	digits, err := encodeBCDDigits(n.Number)
	if err != nil {
		return err
	}
	v := make([]byte, 0, 2+len(digits))
	v = append(v, n.Type<<4|n.Plan)
	v = append(v, 0x80|n.Present<<5|n.Screen)
	v = append(v, digits...)
	m.PutTLV(tag, v)
	return nil
}

// DecodeNumber parses a BCD number IE value, with or without the
// presentation octet.
func DecodeNumber(lv []byte) (Number, error) {
	var n Number
	if len(lv) < 1 {
		return n, ErrTooShort
	}
	n.Type = (lv[0] & 0x70) >> 4
	n.Plan = lv[0] & 0x0f
	digits := lv[1:]
	if lv[0]&0x80 == 0 {
		// octet 3a present
		if len(lv) < 2 {
			return n, ErrTooShort
		}
		n.Present = (lv[1] & 0x60) >> 5
		n.Screen = lv[1] & 0x03
		digits = lv[2:]
	}
	n.Number = decodeBCDDigits(digits)
	return n, nil
}
