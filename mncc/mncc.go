// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

// Package mncc defines the event vocabulary shared with the call-routing
// backend. Events flow both ways: indications/confirms up towards the
// backend, requests/responses down into the call-control machine.
package mncc

import "msc/gsm48"

type EventType uint32

const (
	SetupReq      EventType = 0x0101
	SetupInd      EventType = 0x0102
	SetupRsp      EventType = 0x0103
	SetupCnf      EventType = 0x0104
	SetupComplReq EventType = 0x0105
	SetupComplInd EventType = 0x0106
	CallConfInd   EventType = 0x0107
	CallProcReq   EventType = 0x0108
	ProgressReq   EventType = 0x0109
	AlertReq      EventType = 0x010a
	AlertInd      EventType = 0x010b
	NotifyReq     EventType = 0x010c
	NotifyInd     EventType = 0x010d
	DiscReq       EventType = 0x010e
	DiscInd       EventType = 0x010f
	RelReq        EventType = 0x0110
	RelInd        EventType = 0x0111
	RelCnf        EventType = 0x0112
	FacilityReq   EventType = 0x0113
	FacilityInd   EventType = 0x0114
	StartDTMFInd  EventType = 0x0115
	StartDTMFRsp  EventType = 0x0116
	StartDTMFRej  EventType = 0x0117
	StopDTMFInd   EventType = 0x0118
	StopDTMFRsp   EventType = 0x0119
	ModifyReq     EventType = 0x011a
	ModifyInd     EventType = 0x011b
	ModifyRsp     EventType = 0x011c
	ModifyCnf     EventType = 0x011d
	ModifyRej     EventType = 0x011e
	HoldInd       EventType = 0x011f
	HoldCnf       EventType = 0x0120
	HoldRej       EventType = 0x0121
	RetrieveInd   EventType = 0x0122
	RetrieveCnf   EventType = 0x0123
	RetrieveRej   EventType = 0x0124
	UserInfoReq   EventType = 0x0125
	UserInfoInd   EventType = 0x0126
	RejReq        EventType = 0x0127
	RejInd        EventType = 0x0128

	Bridge     EventType = 0x0200
	FrameRecv  EventType = 0x0201
	FrameDrop  EventType = 0x0202
	RTPCreate  EventType = 0x0204
	RTPConnect EventType = 0x0205
	RTPFree    EventType = 0x0206
)

var eventNames = map[EventType]string{
	SetupReq: "MNCC_SETUP_REQ", SetupInd: "MNCC_SETUP_IND",
	SetupRsp: "MNCC_SETUP_RSP", SetupCnf: "MNCC_SETUP_CNF",
	SetupComplReq: "MNCC_SETUP_COMPL_REQ", SetupComplInd: "MNCC_SETUP_COMPL_IND",
	CallConfInd: "MNCC_CALL_CONF_IND", CallProcReq: "MNCC_CALL_PROC_REQ",
	ProgressReq: "MNCC_PROGRESS_REQ", AlertReq: "MNCC_ALERT_REQ",
	AlertInd: "MNCC_ALERT_IND", NotifyReq: "MNCC_NOTIFY_REQ",
	NotifyInd: "MNCC_NOTIFY_IND", DiscReq: "MNCC_DISC_REQ",
	DiscInd: "MNCC_DISC_IND", RelReq: "MNCC_REL_REQ",
	RelInd: "MNCC_REL_IND", RelCnf: "MNCC_REL_CNF",
	FacilityReq: "MNCC_FACILITY_REQ", FacilityInd: "MNCC_FACILITY_IND",
	StartDTMFInd: "MNCC_START_DTMF_IND", StartDTMFRsp: "MNCC_START_DTMF_RSP",
	StartDTMFRej: "MNCC_START_DTMF_REJ", StopDTMFInd: "MNCC_STOP_DTMF_IND",
	StopDTMFRsp: "MNCC_STOP_DTMF_RSP", ModifyReq: "MNCC_MODIFY_REQ",
	ModifyInd: "MNCC_MODIFY_IND", ModifyRsp: "MNCC_MODIFY_RSP",
	ModifyCnf: "MNCC_MODIFY_CNF", ModifyRej: "MNCC_MODIFY_REJ",
	HoldInd: "MNCC_HOLD_IND", HoldCnf: "MNCC_HOLD_CNF",
	HoldRej: "MNCC_HOLD_REJ", RetrieveInd: "MNCC_RETRIEVE_IND",
	RetrieveCnf: "MNCC_RETRIEVE_CNF", RetrieveRej: "MNCC_RETRIEVE_REJ",
	UserInfoReq: "MNCC_USERINFO_REQ", UserInfoInd: "MNCC_USERINFO_IND",
	RejReq: "MNCC_REJ_REQ", RejInd: "MNCC_REJ_IND",
	Bridge: "MNCC_BRIDGE", FrameRecv: "MNCC_FRAME_RECV",
	FrameDrop: "MNCC_FRAME_DROP", RTPCreate: "MNCC_RTP_CREATE",
	RTPConnect: "MNCC_RTP_CONNECT", RTPFree: "MNCC_RTP_FREE",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "MNCC_UNKNOWN"
}

// Field presence bits.
const (
	FBearerCap   uint32 = 0x0001
	FCalled      uint32 = 0x0002
	FCalling     uint32 = 0x0004
	FRedirecting uint32 = 0x0008
	FConnected   uint32 = 0x0010
	FCause       uint32 = 0x0020
	FUserUser    uint32 = 0x0040
	FProgress    uint32 = 0x0080
	FEmergency   uint32 = 0x0100
	FFacility    uint32 = 0x0200
	FSSVersion   uint32 = 0x0400
	FCCCap       uint32 = 0x0800
	FKeypad      uint32 = 0x1000
	FSignal      uint32 = 0x2000
)

// Event is one signaling primitive crossing the backend boundary. Fields
// says which members are meaningful.
type Event struct {
	Type    EventType
	Callref uint32
	Fields  uint32

	IMSI          string
	CLIRSup       bool
	CLIRInv       bool
	More          bool
	Notify        uint8
	Keypad        uint8
	Signal        uint8
	DTMFSupported bool

	BearerCap   gsm48.BearerCap
	Called      gsm48.Number
	Calling     gsm48.Number
	Redirecting gsm48.Number
	Connected   gsm48.Number
	Cause       gsm48.Cause
	Progress    gsm48.Progress
	UserUser    gsm48.UserUser
	Facility    []byte
	SSVersion   []byte

	RTPIP          uint32
	RTPPort        uint16
	RTPPayloadType uint8
	BridgePeer     uint32
}

func (ev *Event) Has(field uint32) bool { return ev.Fields&field != 0 }

// SetCause fills in the cause field the way every local error path does.
func (ev *Event) SetCause(location, value uint8) {
	ev.Fields |= FCause
	ev.Cause = gsm48.Cause{
		Coding:   3,
		Location: location,
		Value:    value,
	}
}
