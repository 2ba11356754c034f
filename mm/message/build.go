// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package message

import (
	"time"

	"msc/context"
	"msc/gsm48"
)

// BuildLocationUpdatingAccept codes 04.08 9.2.13. The mobile identity is
// the subscriber's TMSI, or the IMSI when TMSI issuance is disabled.
func BuildLocationUpdatingAccept(net *context.MSC, subscr *context.Subscriber) ([]byte, error) {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMLocUpdAccept)
	m.Put(gsm48.EncodeLAI(net.MCC, net.MNC, net.LAC))
	if subscr.HasTMSI() {
		m.PutTLV(gsm48.IEMobileID, gsm48.EncodeMobileIdentityTMSI(subscr.TMSI))
	} else {
		mi, err := gsm48.EncodeMobileIdentityIMSI(subscr.IMSI)
		if err != nil {
			return nil, err
		}
		m.PutTLV(gsm48.IEMobileID, mi)
	}
	return m.Bytes(), nil
}

// BuildLocationUpdatingReject codes 04.08 9.2.14.
func BuildLocationUpdatingReject(cause uint8) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMLocUpdReject)
	m.PutByte(cause)
	return m.Bytes()
}

// BuildIdentityRequest codes 04.08 9.2.10.
func BuildIdentityRequest(idType uint8) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMIdentityRequest)
	m.PutByte(idType)
	return m.Bytes()
}

// BuildAuthenticationRequest codes 04.08 9.2.2. The challenge comes from
// the authentication tuple and nowhere else.
func BuildAuthenticationRequest(tuple *context.AuthTuple) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMAuthRequest)
	m.PutByte(uint8(tuple.KeySeq) & 0x07)
	m.Put(tuple.RAND[:])
	return m.Bytes()
}

// BuildAuthenticationReject codes 04.08 9.2.1.
func BuildAuthenticationReject() []byte {
	return gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMAuthReject).Bytes()
}

func BuildCMServiceAccept() []byte {
	return gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMCMServiceAccept).Bytes()
}

func BuildCMServiceReject(cause uint8) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMCMServiceReject)
	m.PutByte(cause)
	return m.Bytes()
}

func putNetworkName(m *gsm48.Builder, tag uint8, name string) {
	packed, pad := gsm48.Encode7Bit(name)
	v := make([]byte, 0, 1+len(packed))
	v = append(v, 0x80|uint8(pad)) // cell broadcast coding, no CI
	v = append(v, packed...)
	m.PutTLV(tag, v)
}

func bcdify(v int) uint8 {
	return uint8(v/10) | uint8(v%10)<<4
}

// BuildMMInfo codes 04.08 9.2.15a: network names, current time and
// timezone, daylight saving when in effect.
func BuildMMInfo(net *context.MSC, now time.Time) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscMM, gsm48.MTMMInfo)

	if net.NetworkNameLong != "" {
		putNetworkName(m, gsm48.IENameLong, net.NetworkNameLong)
	}
	if net.NetworkNameShort != "" {
		putNetworkName(m, gsm48.IENameShort, net.NetworkNameShort)
	}

	utc := now.UTC()
	tv := make([]byte, 7)
	tv[0] = bcdify(utc.Year() % 100)
	tv[1] = bcdify(int(utc.Month()))
	tv[2] = bcdify(utc.Day())
	tv[3] = bcdify(utc.Hour())
	tv[4] = bcdify(utc.Minute())
	tv[5] = bcdify(utc.Second())

	dst := 0
	if net.TimezoneOverride {
		hr, mn := net.TimezoneHours, net.TimezoneMinutes
		if hr < 0 {
			tv[6] = bcdify(-hr*4 + mn/15)
			tv[6] |= 0x08
		} else {
			tv[6] = bcdify(hr*4 + mn/15)
		}
	} else {
		_, offset := now.Zone()
		units := offset / 60 / 15
		if units < 0 {
			tv[6] = bcdify(-units)
			tv[6] |= 0x08
		} else {
			tv[6] = bcdify(units)
		}
		if now.IsDST() {
			dst = 1
		}
	}
	m.PutT(gsm48.IENetTimeTZ)
	m.Put(tv)

	if dst > 0 {
		m.PutTLV(gsm48.IENetDST, []byte{uint8(dst)})
	}
	return m.Bytes()
}

// BuildApplicationInfo codes the RR APPLICATION INFORMATION message.
func BuildApplicationInfo(apduID uint8, apdu []byte) []byte {
	m := gsm48.NewBuilder(gsm48.PDiscRR, gsm48.MTRRAppInfo)
	m.PutByte(apduID)
	m.PutLV(apdu)
	return m.Bytes()
}
