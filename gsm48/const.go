// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

// Package gsm48 carries the GSM 04.08 Layer 3 wire constants and the small
// codec helpers the signaling handlers need: header framing, the IE walk
// and the handful of information elements that cross the backend boundary.
package gsm48

// Protocol discriminators, 04.08 10.2.
const (
	PDiscGroupCC uint8 = 0x00
	PDiscBcastCC uint8 = 0x01
	PDiscCC      uint8 = 0x03
	PDiscMM      uint8 = 0x05
	PDiscRR      uint8 = 0x06
	PDiscMMGPRS  uint8 = 0x08
	PDiscSMS     uint8 = 0x09
	PDiscSMGPRS  uint8 = 0x0a
	PDiscNCSS    uint8 = 0x0b
	PDiscTest    uint8 = 0x0f
)

// Mobility Management message types, 04.08 10.4. The two high bits carry
// the send-sequence number and are masked off before comparison.
const (
	MTMMImsiDetachInd    uint8 = 0x01
	MTMMLocUpdAccept     uint8 = 0x02
	MTMMLocUpdReject     uint8 = 0x04
	MTMMLocUpdRequest    uint8 = 0x08
	MTMMAuthReject       uint8 = 0x11
	MTMMAuthRequest      uint8 = 0x12
	MTMMAuthResponse     uint8 = 0x14
	MTMMIdentityRequest  uint8 = 0x18
	MTMMIdentityResponse uint8 = 0x19
	MTMMTmsiReallocCmd   uint8 = 0x1a
	MTMMTmsiReallocCompl uint8 = 0x1b
	MTMMAuthFailure      uint8 = 0x1c
	MTMMCMServiceAccept  uint8 = 0x21
	MTMMCMServiceReject  uint8 = 0x22
	MTMMCMServiceAbort   uint8 = 0x23
	MTMMCMServiceRequest uint8 = 0x24
	MTMMCMReestablishReq uint8 = 0x28
	MTMMAbort            uint8 = 0x29
	MTMMNull             uint8 = 0x30
	MTMMStatus           uint8 = 0x31
	MTMMInfo             uint8 = 0x32
)

// Radio Resource message types handled here.
const (
	MTRRPagingResponse uint8 = 0x27
	MTRRStatus         uint8 = 0x12
	MTRRAppInfo        uint8 = 0x38
)

// Call Control message types, 04.08 10.4.
const (
	MTCCAlerting     uint8 = 0x01
	MTCCCallConf     uint8 = 0x08
	MTCCCallProc     uint8 = 0x02
	MTCCConnect      uint8 = 0x07
	MTCCConnectAck   uint8 = 0x0f
	MTCCEmergSetup   uint8 = 0x0e
	MTCCProgress     uint8 = 0x03
	MTCCSetup        uint8 = 0x05
	MTCCModify       uint8 = 0x17
	MTCCModifyCompl  uint8 = 0x1f
	MTCCModifyReject uint8 = 0x13
	MTCCUserInfo     uint8 = 0x10
	MTCCHold         uint8 = 0x18
	MTCCHoldAck      uint8 = 0x19
	MTCCHoldReject   uint8 = 0x1a
	MTCCRetrieve     uint8 = 0x1c
	MTCCRetrieveAck  uint8 = 0x1d
	MTCCRetrieveRej  uint8 = 0x1e
	MTCCDisconnect   uint8 = 0x25
	MTCCRelease      uint8 = 0x2d
	MTCCReleaseCompl uint8 = 0x2a
	MTCCFacility     uint8 = 0x3a
	MTCCStartDTMF    uint8 = 0x35
	MTCCStartDTMFAck uint8 = 0x36
	MTCCStartDTMFRej uint8 = 0x37
	MTCCStopDTMF     uint8 = 0x31
	MTCCStopDTMFAck  uint8 = 0x32
	MTCCStatus       uint8 = 0x3d
	MTCCStatusEnq    uint8 = 0x34
	MTCCNotify       uint8 = 0x3e
)

// Information element identifiers.
const (
	IEMobileID    uint8 = 0x17
	IENameLong    uint8 = 0x43
	IENameShort   uint8 = 0x45
	IEUTC         uint8 = 0x46
	IENetTimeTZ   uint8 = 0x47
	IENetDST      uint8 = 0x49
	IEAuthResExt  uint8 = 0x21
	IEAuts        uint8 = 0x22
	IEFollowOnNFy uint8 = 0xa1

	IEBearerCap   uint8 = 0x04
	IECause       uint8 = 0x08
	IECCCap       uint8 = 0x15
	IEFacility    uint8 = 0x1c
	IEProgress    uint8 = 0x1e
	IEAuxStates   uint8 = 0x24
	IEKeypad      uint8 = 0x2c
	IESignal      uint8 = 0x34
	IEConnectBCD  uint8 = 0x4c
	IEConnectSub  uint8 = 0x4d
	IECallingBCD  uint8 = 0x5c
	IECalledBCD   uint8 = 0x5e
	IECalledSub   uint8 = 0x6d
	IERedirBCD    uint8 = 0x74
	IERedirSub    uint8 = 0x75
	IELowLCompat  uint8 = 0x7c
	IEHighLCompat uint8 = 0x7d
	IEUserUser    uint8 = 0x7e
	IESSVersion   uint8 = 0x7f
	IEMoreData    uint8 = 0xa0
	IECLIRSupp    uint8 = 0xa1
	IECLIRInvoc   uint8 = 0xa2
	IERevCSetup   uint8 = 0xa3
)

// Mobile identity types, 04.08 10.5.1.4.
const (
	MITypeNone   uint8 = 0x00
	MITypeIMSI   uint8 = 0x01
	MITypeIMEI   uint8 = 0x02
	MITypeIMEISV uint8 = 0x03
	MITypeTMSI   uint8 = 0x04
	MITypeMask   uint8 = 0x07
	MIOddFlag    uint8 = 0x08
)

// Location updating types.
const (
	LUTypeNormal   uint8 = 0x00
	LUTypePeriodic uint8 = 0x01
	LUTypeAttach   uint8 = 0x02
	LUTypeMask     uint8 = 0x03
)

// CM service types.
const (
	CMServMOCall uint8 = 0x01
	CMServEmerg  uint8 = 0x02
	CMServSMS    uint8 = 0x04
	CMServSS     uint8 = 0x08
)

// MM reject causes, 04.08 10.5.3.6.
const (
	RejectIMSIUnknownInHLR   uint8 = 2
	RejectIllegalMS          uint8 = 3
	RejectIMSIUnknownInVLR   uint8 = 4
	RejectIMEINotAccepted    uint8 = 5
	RejectIllegalME          uint8 = 6
	RejectPLMNNotAllowed     uint8 = 11
	RejectLocNotAllowed      uint8 = 12
	RejectRoamingNotAllowed  uint8 = 13
	RejectNetworkFailure     uint8 = 17
	RejectCongestion         uint8 = 22
	RejectSrvOptNotSupported uint8 = 32
	RejectIncorrectMessage   uint8 = 95
	RejectMsgTypeNotCompat   uint8 = 101
	RejectProtocolError      uint8 = 111
)

// Cause locations, 04.08 10.5.4.11.
const (
	CauseLocUser         uint8 = 0
	CauseLocPrivateLocal uint8 = 1
	CauseLocPublicLocal  uint8 = 2
	CauseLocTransit      uint8 = 3
	CauseLocPublicRemote uint8 = 4
	CauseLocPrivateRemote uint8 = 5
	CauseLocInternational uint8 = 7
	CauseLocBeyondIwu     uint8 = 10
)

// Call Control cause values, 04.08 annex H.
const (
	CCCauseUnassignedNumber   uint8 = 1
	CCCauseNoRoute            uint8 = 3
	CCCauseChanUnacceptable   uint8 = 6
	CCCauseOpDetermBarring    uint8 = 8
	CCCauseNormalCallClearing uint8 = 16
	CCCauseUserBusy           uint8 = 17
	CCCauseUserNotResponding  uint8 = 18
	CCCauseUserAlertingNoAnsw uint8 = 19
	CCCauseCallRejected       uint8 = 21
	CCCauseNumberChanged      uint8 = 22
	CCCauseDestOutOfOrder     uint8 = 27
	CCCauseInvNumberFormat    uint8 = 28
	CCCauseFacilityRejected   uint8 = 29
	CCCauseRespStatusInquiry  uint8 = 30
	CCCauseNormalUnspec       uint8 = 31
	CCCauseNoCircuitChanAvail uint8 = 34
	CCCauseNetworkOutOfOrder  uint8 = 38
	CCCauseTempFailure        uint8 = 41
	CCCauseSwitchCongestion   uint8 = 42
	CCCauseResourceUnavail    uint8 = 47
	CCCauseBearerCapUnavail   uint8 = 58
	CCCauseServOptUnimpl      uint8 = 79
	CCCauseInvalTransID       uint8 = 81
	CCCauseSemanticIncorrect  uint8 = 95
	CCCauseInvalMandInfo      uint8 = 96
	CCCauseMsgTypeNotExist    uint8 = 97
	CCCauseMsgTypeNotCompat   uint8 = 98
	CCCauseIENotExist         uint8 = 99
	CCCauseCondIEError        uint8 = 100
	CCCauseMsgNotCompat       uint8 = 101
	CCCauseRecoveryTimer      uint8 = 102
	CCCauseProtoError         uint8 = 111
	CCCauseInterworking       uint8 = 127
)

// Bearer capability fields.
const (
	BCapSpeech       uint8 = 0
	BCapUnrestricted uint8 = 1
	BCapAudio        uint8 = 2
	BCapFax          uint8 = 3

	BCapModeCircuit uint8 = 0
	BCapModePacket  uint8 = 1

	BCapCodingGSM uint8 = 0

	BCapRadioFROnly uint8 = 1
	BCapRadioDual   uint8 = 3
)

// Speech versions carried in bearer capability octets 3a+.
const (
	BCapSVFR  = 0
	BCapSVHR  = 1
	BCapSVEFR = 2
	BCapSVAMR = 4
)
