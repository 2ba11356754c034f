// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package gsm48

import (
	"bytes"
	"testing"
)

func TestHeaderAccessors(t *testing.T) {
	raw := []byte{0x83, MTCCSetup}
	if got := HdrPDisc(raw); got != PDiscCC {
		t.Errorf("HdrPDisc = 0x%x, want 0x%x", got, PDiscCC)
	}
	if got := HdrTransID(raw); got != 0x8 {
		t.Errorf("HdrTransID = 0x%x, want 0x8", got)
	}
	if got := FlipTransID(0x8); got != 0x0 {
		t.Errorf("FlipTransID(0x8) = 0x%x, want 0x0", got)
	}
	if got := FlipTransID(0x3); got != 0xb {
		t.Errorf("FlipTransID(0x3) = 0x%x, want 0xb", got)
	}
}

func TestHdrMsgTypeMMMasksSequence(t *testing.T) {
	raw := []byte{PDiscMM, 0x40 | MTMMLocUpdRequest}
	if got := HdrMsgTypeMM(raw); got != MTMMLocUpdRequest {
		t.Errorf("HdrMsgTypeMM = 0x%02x, want 0x%02x", got, MTMMLocUpdRequest)
	}
}

func TestBuilderStampTransID(t *testing.T) {
	m := NewBuilder(PDiscCC, MTCCAlerting)
	m.StampTransID(0x9)
	got := m.Bytes()
	want := []byte{0x93, MTCCAlerting}
	if !bytes.Equal(got, want) {
		t.Errorf("header = % x, want % x", got, want)
	}
}

func TestMobileIdentityIMSIRoundTrip(t *testing.T) {
	tests := []string{
		"262420000000001", // odd digit count
		"26242000000000",  // even digit count
	}
	for _, imsi := range tests {
		mi, err := EncodeMobileIdentityIMSI(imsi)
		if err != nil {
			t.Fatalf("encode %s: %v", imsi, err)
		}
		miType, got, err := DecodeMobileIdentity(mi)
		if err != nil {
			t.Fatalf("decode %s: %v", imsi, err)
		}
		if miType != MITypeIMSI {
			t.Errorf("type = %d, want IMSI", miType)
		}
		if got != imsi {
			t.Errorf("round trip = %s, want %s", got, imsi)
		}
	}
}

func TestMobileIdentityTMSI(t *testing.T) {
	mi := EncodeMobileIdentityTMSI(0x12345678)
	tmsi, err := DecodeTMSI(mi)
	if err != nil {
		t.Fatalf("DecodeTMSI: %v", err)
	}
	if tmsi != 0x12345678 {
		t.Errorf("tmsi = 0x%x, want 0x12345678", tmsi)
	}
	miType, s, err := DecodeMobileIdentity(mi)
	if err != nil || miType != MITypeTMSI {
		t.Fatalf("DecodeMobileIdentity: type=%d err=%v", miType, err)
	}
	if s != "305419896" {
		t.Errorf("decimal rendering = %s, want 305419896", s)
	}
}

func TestDecodeMobileIdentityShort(t *testing.T) {
	if _, _, err := DecodeMobileIdentity(nil); err == nil {
		t.Error("empty identity did not fail")
	}
	if _, err := DecodeTMSI([]byte{MITypeTMSI, 1, 2}); err == nil {
		t.Error("truncated TMSI did not fail")
	}
}

func TestParseIEs(t *testing.T) {
	data := []byte{
		IEKeypad, '5', // TV
		IECause, 2, 0xe1, 0x90, // TLV
		IECLIRSupp, // T
	}
	ies, err := ParseIEs(CCIEs, data)
	if err != nil {
		t.Fatalf("ParseIEs: %v", err)
	}
	if !ies.Present(IEKeypad) || ies.Val(IEKeypad)[0] != '5' {
		t.Error("keypad IE missing or wrong")
	}
	if !bytes.Equal(ies.Val(IECause), []byte{0xe1, 0x90}) {
		t.Errorf("cause IE = % x", ies.Val(IECause))
	}
	if !ies.Present(IECLIRSupp) {
		t.Error("CLIR suppression flag missing")
	}
}

func TestParseIEsUnknownTags(t *testing.T) {
	// unknown high-bit tag is a flag, unknown low tag is TLV
	data := []byte{0xb0, 0x51, 1, 0xaa}
	ies, err := ParseIEs(CCIEs, data)
	if err != nil {
		t.Fatalf("ParseIEs: %v", err)
	}
	if !ies.Present(0xb0) {
		t.Error("unknown flag tag not kept")
	}
	if !bytes.Equal(ies.Val(0x51), []byte{0xaa}) {
		t.Error("unknown TLV tag not kept")
	}
}

func TestParseIEsTruncated(t *testing.T) {
	tests := [][]byte{
		{IEKeypad},             // TV without value
		{IECause, 5, 1, 2},     // TLV length past end
		{IEBearerCap},          // TLV without length
	}
	for _, data := range tests {
		if _, err := ParseIEs(CCIEs, data); err == nil {
			t.Errorf("truncated IEs % x did not fail", data)
		}
	}
}

func TestCauseRoundTrip(t *testing.T) {
	c := Cause{
		Coding:   3,
		Location: CauseLocPrivateLocal,
		Value:    CCCauseUserNotResponding,
		Diag:     []byte{'3', '0', '3'},
	}
	v := EncodeCauseValue(&c)
	got, err := DecodeCause(v)
	if err != nil {
		t.Fatalf("DecodeCause: %v", err)
	}
	if got.Coding != c.Coding || got.Location != c.Location || got.Value != c.Value {
		t.Errorf("cause = %+v, want %+v", got, c)
	}
	if !bytes.Equal(got.Diag, c.Diag) {
		t.Errorf("diag = % x, want % x", got.Diag, c.Diag)
	}
}

func TestCauseRecommendation(t *testing.T) {
	c := Cause{Coding: 3, Location: CauseLocUser, Rec: true, RecVal: 2, Value: CCCauseUserBusy}
	got, err := DecodeCause(EncodeCauseValue(&c))
	if err != nil {
		t.Fatalf("DecodeCause: %v", err)
	}
	if !got.Rec || got.RecVal != 2 || got.Value != CCCauseUserBusy {
		t.Errorf("cause = %+v", got)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	p := Progress{Coding: 3, Location: CauseLocPrivateLocal, Descr: 8}
	got, err := DecodeProgress(EncodeProgressValue(&p))
	if err != nil {
		t.Fatalf("DecodeProgress: %v", err)
	}
	if got != p {
		t.Errorf("progress = %+v, want %+v", got, p)
	}
}

func TestNumberRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		number string
	}{
		{"even", "12345678"},
		{"odd", "123456789"},
		{"symbols", "*#12ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Number{Type: 1, Plan: 1, Number: tt.number}
			m := NewBuilder(PDiscCC, MTCCSetup)
			if err := EncodeCalled(m, IECalledBCD, &n); err != nil {
				t.Fatalf("EncodeCalled: %v", err)
			}
			ies, err := ParseIEs(CCIEs, m.Bytes()[HeaderLen:])
			if err != nil {
				t.Fatalf("ParseIEs: %v", err)
			}
			got, err := DecodeNumber(ies.Val(IECalledBCD))
			if err != nil {
				t.Fatalf("DecodeNumber: %v", err)
			}
			if got.Number != tt.number {
				t.Errorf("number = %s, want %s", got.Number, tt.number)
			}
			if got.Type != 1 || got.Plan != 1 {
				t.Errorf("type/plan = %d/%d, want 1/1", got.Type, got.Plan)
			}
		})
	}
}

func TestCallerIDPresentation(t *testing.T) {
	n := Number{Type: 2, Plan: 1, Present: 1, Screen: 3, Number: "4921055"}
	m := NewBuilder(PDiscCC, MTCCSetup)
	if err := EncodeCallerID(m, IECallingBCD, &n); err != nil {
		t.Fatalf("EncodeCallerID: %v", err)
	}
	ies, err := ParseIEs(CCIEs, m.Bytes()[HeaderLen:])
	if err != nil {
		t.Fatalf("ParseIEs: %v", err)
	}
	got, err := DecodeNumber(ies.Val(IECallingBCD))
	if err != nil {
		t.Fatalf("DecodeNumber: %v", err)
	}
	if got.Present != 1 || got.Screen != 3 {
		t.Errorf("present/screen = %d/%d, want 1/3", got.Present, got.Screen)
	}
	if got.Number != n.Number {
		t.Errorf("number = %s, want %s", got.Number, n.Number)
	}
}

func TestEncodeNumberBadDigit(t *testing.T) {
	n := Number{Number: "12x4"}
	m := NewBuilder(PDiscCC, MTCCSetup)
	if err := EncodeCalled(m, IECalledBCD, &n); err == nil {
		t.Error("bad digit did not fail")
	}
}

func TestBearerCapSpeechRoundTrip(t *testing.T) {
	bc := BearerCap{
		Transfer:  BCapSpeech,
		Mode:      BCapModeCircuit,
		Coding:    BCapCodingGSM,
		Radio:     BCapRadioDual,
		SpeechVer: []uint8{BCapSVFR, BCapSVEFR},
	}
	got, err := DecodeBearerCap(EncodeBearerCapValue(&bc))
	if err != nil {
		t.Fatalf("DecodeBearerCap: %v", err)
	}
	if got.Transfer != bc.Transfer || got.Radio != bc.Radio {
		t.Errorf("bearer = %+v, want %+v", got, bc)
	}
	if len(got.SpeechVer) != 2 || got.SpeechVer[0] != BCapSVFR || got.SpeechVer[1] != BCapSVEFR {
		t.Errorf("speech versions = %v", got.SpeechVer)
	}
}

func TestEncodeLAI(t *testing.T) {
	got := EncodeLAI("262", "42", 0x1234)
	want := []byte{0x62, 0xf2, 0x24, 0x12, 0x34}
	if !bytes.Equal(got, want) {
		t.Errorf("LAI = % x, want % x", got, want)
	}
	// three-digit MNC has no filler
	got = EncodeLAI("262", "421", 1)
	want = []byte{0x62, 0x12, 0x24, 0x00, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("LAI = % x, want % x", got, want)
	}
}

func TestEncode7Bit(t *testing.T) {
	// classic vector: "hello" packs to E8 32 9B FD 06
	got, pad := Encode7Bit("hello")
	want := []byte{0xe8, 0x32, 0x9b, 0xfd, 0x06}
	if !bytes.Equal(got, want) {
		t.Errorf("packed = % x, want % x", got, want)
	}
	if pad != 5 {
		t.Errorf("pad = %d, want 5", pad)
	}
}

func TestEncodeCallStateValue(t *testing.T) {
	if got := EncodeCallStateValue(0); got != 0xc0 {
		t.Errorf("call state(0) = 0x%02x, want 0xc0", got)
	}
	if got := EncodeCallStateValue(10); got != 0xca {
		t.Errorf("call state(10) = 0x%02x, want 0xca", got)
	}
}
