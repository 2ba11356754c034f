// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

import "encoding/binary"

// Progress is the 04.08 10.5.4.21 progress indicator.
type Progress struct {
	Coding   uint8
	Location uint8
	Descr    uint8
}

func EncodeProgressValue(p *Progress) []byte {
	return []byte{0x80 | p.Coding<<5 | p.Location&0x0f, 0x80 | p.Descr&0x7f}
}

func DecodeProgress(lv []byte) (Progress, error) {
	var p Progress
	if len(lv) < 2 {
		return p, ErrTooShort
	}
	p.Coding = (lv[0] & 0x60) >> 5
	p.Location = lv[0] & 0x0f
	p.Descr = lv[1] & 0x7f
	return p, nil
}

// UserUser is the user-user IE: one protocol discriminator octet plus
// opaque payload, passed through untouched.
type UserUser struct {
	Proto uint8
	Info  []byte
}

func EncodeUserUserValue(uu *UserUser) []byte {
	v := make([]byte, 0, 1+len(uu.Info))
	v = append(v, uu.Proto)
	return append(v, uu.Info...)
}

func DecodeUserUser(lv []byte) (UserUser, error) {
	if len(lv) < 1 {
		return UserUser{}, ErrTooShort
	}
	return UserUser{Proto: lv[0], Info: append([]byte(nil), lv[1:]...)}, nil
}

// EncodeCallStateValue codes the call state IE octet, GSM coding standard.
func EncodeCallStateValue(state uint8) uint8 {
	return 0xc0 | state&0x3f
}

// EncodeLAI packs mobile country/network codes and the location area code.
// Two-digit network codes get the filler nibble the BCD coding requires.
func EncodeLAI(mcc, mnc string, lac uint16) []byte {
	d := func(s string, i int) uint8 {
		if i < len(s) {
			return uint8(s[i] - '0')
		}
		return 0x0f
	}
	lai := make([]byte, 5)
	lai[0] = d(mcc, 0) | d(mcc, 1)<<4
	lai[1] = d(mcc, 2) | d(mnc, 2)<<4
	lai[2] = d(mnc, 0) | d(mnc, 1)<<4
	binary.BigEndian.PutUint16(lai[3:], lac)
	return lai
}
