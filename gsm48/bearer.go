// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

// BearerCap is a simplified 04.08 10.5.4.5 bearer capability: octet 3 plus
// the speech version chain.
type BearerCap struct {
	Transfer  uint8
	Mode      uint8
	Coding    uint8
	Radio     uint8
	SpeechVer []uint8
}

func EncodeBearerCapValue(bc *BearerCap) []byte {
	v := []byte{bc.Radio<<5 | bc.Coding<<4 | bc.Mode<<3 | bc.Transfer}
	if bc.Transfer == BCapSpeech && len(bc.SpeechVer) > 0 {
		for i, sv := range bc.SpeechVer {
			oct := sv & 0x0f
			if i == len(bc.SpeechVer)-1 {
				oct |= 0x80
			}
			v = append(v, oct)
		}
	} else {
		v[0] |= 0x80
	}
	return v
}

func DecodeBearerCap(lv []byte) (BearerCap, error) {
	var bc BearerCap
	if len(lv) < 1 {
		return bc, ErrTooShort
	}
	bc.Transfer = lv[0] & 0x07
	bc.Mode = (lv[0] & 0x08) >> 3
	bc.Coding = (lv[0] & 0x10) >> 4
	bc.Radio = (lv[0] & 0x60) >> 5
	if bc.Transfer == BCapSpeech {
		i := 0
		for lv[i]&0x80 == 0 {
			i++
			if i >= len(lv) {
				return bc, ErrBadIE
			}
			bc.SpeechVer = append(bc.SpeechVer, lv[i]&0x0f)
		}
	}
	return bc, nil
}
