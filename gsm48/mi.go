// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// DecodeMobileIdentity parses a mobile identity value (the bytes after the
// length octet). IMSI/IMEI/IMEISV come back as digit strings, a TMSI as its
// decimal rendering.
func DecodeMobileIdentity(mi []byte) (miType uint8, ident string, err error) {
	if len(mi) < 1 {
		return MITypeNone, "", ErrTooShort
	}
	miType = mi[0] & MITypeMask
	switch miType {
	case MITypeTMSI:
		if len(mi) < 5 {
			return miType, "", ErrTooShort
		}
		tmsi := binary.BigEndian.Uint32(mi[1:5])
		return miType, strconv.FormatUint(uint64(tmsi), 10), nil
	case MITypeIMSI, MITypeIMEI, MITypeIMEISV:
		var digits []byte
		digits = append(digits, bcdDigit(mi[0]>>4))
		for _, oct := range mi[1:] {
			digits = append(digits, bcdDigit(oct&0x0f))
			digits = append(digits, bcdDigit(oct>>4))
		}
		if mi[0]&MIOddFlag == 0 {
			// even digit count, last nibble is filler
			digits = digits[:len(digits)-1]
		}
		return miType, string(digits), nil
	default:
		return miType, "", fmt.Errorf("unsupported mobile identity type %d", miType)
	}
}

// DecodeTMSI pulls the TMSI out of a TMSI mobile identity value.
func DecodeTMSI(mi []byte) (uint32, error) {
	if len(mi) < 5 || mi[0]&MITypeMask != MITypeTMSI {
		return 0, ErrBadIE
	}
	return binary.BigEndian.Uint32(mi[1:5]), nil
}

func bcdDigit(n uint8) byte {
	if n < 10 {
		return '0' + n
	}
	return '?'
}

// EncodeMobileIdentityTMSI builds a TMSI mobile identity value.
func EncodeMobileIdentityTMSI(tmsi uint32) []byte {
	mi := make([]byte, 5)
	mi[0] = 0xf0 | MITypeTMSI
	binary.BigEndian.PutUint32(mi[1:], tmsi)
	return mi
}

// EncodeMobileIdentityIMSI builds an IMSI mobile identity value.
func EncodeMobileIdentityIMSI(imsi string) ([]byte, error) {
	if imsi == "" {
		return nil, ErrBadDigits
	}
	mi := make([]byte, 1, 1+len(imsi)/2)
	mi[0] = MITypeIMSI | (uint8(imsi[0]-'0') << 4)
	if len(imsi)%2 != 0 {
		mi[0] |= MIOddFlag
	}
	for i := 1; i < len(imsi); i += 2 {
		oct := imsi[i] - '0'
		if i+1 < len(imsi) {
			oct |= (imsi[i+1] - '0') << 4
		} else {
			oct |= 0xf0
		}
		mi = append(mi, oct)
	}
	return mi, nil
}
