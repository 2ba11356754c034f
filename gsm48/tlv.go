// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

type IEFormat int

const (
	FormatT IEFormat = iota
	FormatTV
	FormatTLV
)

type IEDef map[uint8]IEFormat

// CCIEs describes the optional part of every Call Control message handled
// here.
var CCIEs = IEDef{
	IEBearerCap:   FormatTLV,
	IECause:       FormatTLV,
	IECCCap:       FormatTLV,
	IEFacility:    FormatTLV,
	IEProgress:    FormatTLV,
	IEAuxStates:   FormatTLV,
	IEKeypad:      FormatTV,
	IESignal:      FormatTV,
	IEConnectBCD:  FormatTLV,
	IEConnectSub:  FormatTLV,
	IECallingBCD:  FormatTLV,
	IECalledBCD:   FormatTLV,
	IECalledSub:   FormatTLV,
	IERedirBCD:    FormatTLV,
	IERedirSub:    FormatTLV,
	IELowLCompat:  FormatTLV,
	IEHighLCompat: FormatTLV,
	IEUserUser:    FormatTLV,
	IESSVersion:   FormatTLV,
	IEMoreData:    FormatT,
	IECLIRSupp:    FormatT,
	IECLIRInvoc:   FormatT,
	IERevCSetup:   FormatT,
}

// IEMap holds parsed optional IEs. Tag-only flags map to an empty non-nil
// slice.
type IEMap map[uint8][]byte

func (m IEMap) Present(tag uint8) bool {
	_, ok := m[tag]
	return ok
}

func (m IEMap) Val(tag uint8) []byte { return m[tag] }

// ParseIEs walks the optional IE part of a message. Unknown tags with the
// high bit set are treated as flags, others as tagged length-value, so a
// peer adding IEs we do not know does not break the walk.
func ParseIEs(def IEDef, data []byte) (IEMap, error) {
	m := IEMap{}
	for i := 0; i < len(data); {
		tag := data[i]
		format, known := def[tag]
		if !known {
			if tag&0x80 != 0 {
				format = FormatT
			} else {
				format = FormatTLV
			}
		}
		switch format {
		case FormatT:
			m[tag] = []byte{}
			i++
		case FormatTV:
			if i+1 >= len(data) {
				return nil, ErrBadIE
			}
			m[tag] = data[i+1 : i+2]
			i += 2
		case FormatTLV:
			if i+1 >= len(data) {
				return nil, ErrBadIE
			}
			l := int(data[i+1])
			if i+2+l > len(data) {
				return nil, ErrBadIE
			}
			m[tag] = data[i+2 : i+2+l]
			i += 2 + l
		}
	}
	return m, nil
}
