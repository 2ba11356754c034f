// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

// Package mm implements the Mobility Management procedures: location
// updating, identity handling, CM service requests, authentication and
// ciphering, IMSI detach. Procedures are short-lived operations attached
// to a signaling connection; at most one location updating and one
// security operation exist per connection at any time.
package mm

import (
	"time"

	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/metrics"
	"msc/mm/message"
)

const locUpdRejectDelay = 5 * time.Second

func releaseLocOperation(conn *context.SignalingConn) {
	if conn.Loc == nil {
		return
	}
	conn.ReleaseAnchor()
	if conn.Loc.RejectTimer != nil {
		conn.Loc.RejectTimer.Stop()
		conn.Loc.RejectTimer = nil
	}
	conn.Loc = nil
	conn.Put()
}

func locUpdatingFailure(conn *context.SignalingConn) {
	if conn.Loc == nil {
		return
	}
	logger.MmLog.Errorf("location updating failed for %s", conn.Subscriber.Label())
	metrics.IncrLocUpdateResult("failed")
	releaseLocOperation(conn)
}

func locUpdatingSuccess(conn *context.SignalingConn) {
	if conn.Loc == nil {
		return
	}
	logger.MmLog.Infof("location updating completed for %s", conn.Subscriber.Label())
	metrics.IncrLocUpdateResult("completed")
	releaseLocOperation(conn)
}

func allocateLocOperation(conn *context.SignalingConn) {
	if conn.Loc != nil {
		logger.MmLog.Errorln("connection already had a location updating operation")
		locUpdatingFailure(conn)
	}
	conn.Loc = &context.LocUpdOperation{}
	conn.Use()
}

// scheduleReject arms the guard that rejects a location update the device
// never followed up on.
func scheduleReject(conn *context.SignalingConn) {
	net := conn.Net
	conn.Loc.RejectTimer = context.NewSingleTimer(locUpdRejectDelay, func() {
		net.Lock()
		defer net.Unlock()
		if conn.Loc == nil {
			return
		}
		logger.MmLog.Debugln("location updating procedure timed out")
		message.SendLocationUpdatingReject(conn, net.RejectCause)
		locUpdatingFailure(conn)
	})
}

func subscrRegexpCheck(net *context.MSC, imsi string) bool {
	if net.AuthorizedRegexp == nil {
		return false
	}
	return net.AuthorizedRegexp.MatchString(imsi)
}

// subscrCreate makes a subscriber record on first contact, when the
// network allows that and the IMSI passes the authorized pattern.
func subscrCreate(net *context.MSC, imsi string) *context.Subscriber {
	if !net.AutoCreate {
		return nil
	}
	if !subscrRegexpCheck(net, imsi) {
		return nil
	}
	return net.Subscribers.CreateByIMSI(imsi)
}

// authorizeSubscriber gates network entry. While identity responses are
// still outstanding the decision is deferred.
func authorizeSubscriber(loc *context.LocUpdOperation, subscr *context.Subscriber) bool {
	if subscr == nil {
		return false
	}
	if loc != nil && (loc.WaitingForIMSI || loc.WaitingForIMEI) {
		return false
	}
	net := context.MSC_Self()
	switch net.Policy {
	case context.AuthPolicyClosed:
		return subscr.Authorized
	case context.AuthPolicyRegexp:
		if subscr.Authorized {
			return true
		}
		if subscrRegexpCheck(net, subscr.IMSI) {
			subscr.Authorized = true
		}
		return subscr.Authorized
	case context.AuthPolicyToken:
		if subscr.Authorized {
			return true
		}
		return subscr.FirstContact
	case context.AuthPolicyAcceptAll:
		return true
	default:
		return false
	}
}

// finishLU accepts the location update. Unless TMSI issuance is disabled
// the procedure stays open until the device confirms the reallocation.
func finishLU(conn *context.SignalingConn) error {
	net := conn.Net
	if net.AvoidTMSI {
		conn.Subscriber.TMSI = context.TmsiInvalid
	} else {
		net.TmsiAllocate(conn.Subscriber)
	}

	err := message.SendLocationUpdatingAccept(conn)
	if net.SendMMInfo {
		message.SendMMInfo(conn)
	}

	net.Subscribers.Attach(conn.Subscriber)
	conn.Subscriber.LAC = net.LAC

	if net.AvoidTMSI {
		locUpdatingSuccess(conn)
	}
	return err
}

func authorizeSecCb(status context.SecurityStatus, conn *context.SignalingConn) {
	switch status {
	case context.SecurityAuthFailed:
		locUpdatingFailure(conn)
	case context.SecurityAlreadySecure:
		logger.MmLog.Errorln("unexpected LOCATION UPDATING on a secured connection")
		fallthrough
	case context.SecurityNotAvailable, context.SecuritySucceeded:
		finishLU(conn)
	}
}

// authorize runs the entry gate and, once it passes, the security
// operation that concludes the location update.
func authorize(conn *context.SignalingConn) error {
	if conn.Loc == nil {
		return nil
	}
	if authorizeSubscriber(conn.Loc, conn.Subscriber) {
		return SecureChannel(conn, conn.Loc.KeySeq, authorizeSecCb)
	}
	return nil
}

// handleLocUpdRequest covers 04.08 9.2.15. Layout after the header: type
// and key sequence, LAI, classmark 1, mobile identity LV.
func handleLocUpdRequest(conn *context.SignalingConn, raw []byte) error {
	net := conn.Net
	body := raw[gsm48.HeaderLen:]
	if len(body) < 8 {
		return gsm48.ErrTooShort
	}
	luType := body[0] & gsm48.LUTypeMask
	keySeq := body[0] >> 4 & 0x07
	classmark1 := body[6]
	miLen := int(body[7])
	if len(body) < 8+miLen {
		return gsm48.ErrTooShort
	}
	miType, miString, err := gsm48.DecodeMobileIdentity(body[8 : 8+miLen])
	if err != nil {
		return err
	}

	logger.MmLog.Infof("LOCATION UPDATING REQUEST: MI(%d)=%s type=%d", miType, miString, luType)

	switch luType {
	case gsm48.LUTypeNormal:
		metrics.IncrLocUpdateType("normal")
	case gsm48.LUTypeAttach:
		metrics.IncrLocUpdateType("attach")
	case gsm48.LUTypePeriodic:
		metrics.IncrLocUpdateType("periodic")
	}

	// A concurrent updating request smells like spoofing: turn it away
	// and keep the one in progress.
	if conn.Loc != nil {
		logger.MmLog.Debugf("ignoring request, one already in progress")
		return message.SendLocationUpdatingReject(conn, gsm48.RejectProtocolError)
	}

	allocateLocOperation(conn)
	conn.Loc.Type = luType
	conn.Loc.KeySeq = keySeq

	var subscr *context.Subscriber
	switch miType {
	case gsm48.MITypeIMSI:
		// we always want the IMEI, too
		message.SendIdentityRequest(conn, gsm48.MITypeIMEI)
		conn.Loc.WaitingForIMEI = true

		subscr = net.Subscribers.ByIMSI(miString)
		if subscr == nil {
			subscr = subscrCreate(net, miString)
		}
		if subscr == nil {
			message.SendLocationUpdatingReject(conn, net.RejectCause)
			locUpdatingFailure(conn)
			return nil
		}
	case gsm48.MITypeTMSI:
		tmsi, err := gsm48.DecodeTMSI(body[8 : 8+miLen])
		if err != nil {
			return err
		}
		subscr = net.Subscribers.ByTMSI(tmsi)
		if subscr == nil {
			message.SendIdentityRequest(conn, gsm48.MITypeIMSI)
			conn.Loc.WaitingForIMSI = true
		}
		message.SendIdentityRequest(conn, gsm48.MITypeIMEI)
		conn.Loc.WaitingForIMEI = true
	case gsm48.MITypeIMEI, gsm48.MITypeIMEISV:
		// equipment identity cannot register a subscriber
		logger.MmLog.Infof("rejecting location update keyed on equipment identity")
		message.SendLocationUpdatingReject(conn, gsm48.RejectProtocolError)
		locUpdatingFailure(conn)
		return nil
	default:
		logger.MmLog.Infof("unknown mobile identity type %d", miType)
	}

	scheduleReject(conn)

	if subscr == nil {
		logger.MmLog.Debugln("no subscriber for this identity yet")
		return nil
	}

	conn.Subscriber = subscr
	subscr.Equipment.Classmark1 = classmark1

	return authorize(conn)
}

// handleIdentityResponse covers 04.08 9.2.11.
func handleIdentityResponse(conn *context.SignalingConn, raw []byte) error {
	net := conn.Net
	body := raw[gsm48.HeaderLen:]
	if len(body) < 2 {
		return gsm48.ErrTooShort
	}
	miLen := int(body[0])
	if len(body) < 1+miLen {
		return gsm48.ErrTooShort
	}
	miType, miString, err := gsm48.DecodeMobileIdentity(body[1 : 1+miLen])
	if err != nil {
		return err
	}
	logger.MmLog.Debugf("IDENTITY RESPONSE: MI(%d)=%s", miType, miString)

	switch miType {
	case gsm48.MITypeIMSI:
		if conn.Subscriber == nil {
			conn.Subscriber = net.Subscribers.ByIMSI(miString)
			if conn.Subscriber == nil {
				conn.Subscriber = subscrCreate(net, miString)
			}
		}
		if conn.Subscriber == nil && conn.Loc != nil {
			message.SendLocationUpdatingReject(conn, net.RejectCause)
			locUpdatingFailure(conn)
			return nil
		}
		if conn.Loc != nil {
			conn.Loc.WaitingForIMSI = false
		}
	case gsm48.MITypeIMEI, gsm48.MITypeIMEISV:
		if conn.Subscriber != nil {
			if miType == gsm48.MITypeIMEISV {
				conn.Subscriber.Equipment.IMEISV = miString
			} else {
				conn.Subscriber.Equipment.IMEI = miString
			}
			net.Subscribers.UpdateEquipment(conn.Subscriber)
		}
		if conn.Loc != nil {
			conn.Loc.WaitingForIMEI = false
		}
	}

	return authorize(conn)
}

func implicitAttach(conn *context.SignalingConn) {
	if conn.Subscriber.Attached {
		return
	}
	// the device missed its periodic update but still knows its TMSI
	conn.Net.Subscribers.Attach(conn.Subscriber)
}

func servReqSecCb(status context.SecurityStatus, conn *context.SignalingConn) {
	switch status {
	case context.SecurityAuthFailed:
		metrics.IncrCMService("auth_failed")
	case context.SecurityNotAvailable, context.SecurityAlreadySecure:
		message.SendCMServiceAccept(conn)
		metrics.IncrCMService("accepted")
		implicitAttach(conn)
	case context.SecuritySucceeded:
		// CIPHER MODE COMMAND doubles as the service accept
		metrics.IncrCMService("accepted")
		implicitAttach(conn)
	}
}

// handleCMServiceRequest covers 04.08 9.2.9. The classmark 2 length is
// variable, so the mobile identity offset depends on it; every offset is
// checked before use and a short message is answered with an incorrect-
// message reject rather than dropped.
func handleCMServiceRequest(conn *context.SignalingConn, raw []byte) error {
	net := conn.Net
	body := raw[gsm48.HeaderLen:]
	if len(body) < 2 {
		logger.MmLog.Debugln("CM SERVICE REQUEST wrong sized message")
		return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
	}
	serviceType := body[0] & 0x0f
	keySeq := body[0] >> 4 & 0x07
	cm2Len := int(body[1])
	if len(body) < 2+cm2Len+1 {
		logger.MmLog.Debugln("CM SERVICE REQUEST classmark does not fit")
		return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
	}
	classmark2 := body[2 : 2+cm2Len]
	miLen := int(body[2+cm2Len])
	if len(body) < 2+cm2Len+1+miLen {
		logger.MmLog.Debugln("CM SERVICE REQUEST identity does not fit in packet")
		return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
	}
	mi := body[2+cm2Len+1 : 2+cm2Len+1+miLen]

	miType, miString, err := gsm48.DecodeMobileIdentity(mi)
	if err != nil {
		return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
	}

	var subscr *context.Subscriber
	switch miType {
	case gsm48.MITypeIMSI:
		logger.MmLog.Infof("CM SERVICE REQUEST serv_type=0x%02x MI(IMSI)=%s", serviceType, miString)
		subscr = net.Subscribers.ByIMSI(miString)
	case gsm48.MITypeTMSI:
		logger.MmLog.Infof("CM SERVICE REQUEST serv_type=0x%02x MI(TMSI)=%s", serviceType, miString)
		tmsi, err := gsm48.DecodeTMSI(mi)
		if err != nil {
			return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
		}
		subscr = net.Subscribers.ByTMSI(tmsi)
	default:
		logger.MmLog.Debugf("CM SERVICE REQUEST unexpected identity type %d", miType)
		return message.SendCMServiceReject(conn, gsm48.RejectIncorrectMessage)
	}

	if subscr == nil {
		metrics.IncrCMService("unknown")
		return message.SendCMServiceReject(conn, gsm48.RejectIMSIUnknownInVLR)
	}

	if conn.Subscriber == nil {
		conn.Subscriber = subscr
	} else if conn.Subscriber != subscr {
		logger.MmLog.Debugln("CM SERVICE REQUEST on a connection owned by someone else")
	}

	subscr.Equipment.Classmark2 = append([]byte(nil), classmark2...)
	net.Subscribers.UpdateEquipment(subscr)

	err = SecureChannel(conn, keySeq, servReqSecCb)
	if err == context.ErrSecurityBusy {
		return message.SendCMServiceReject(conn, gsm48.RejectCongestion)
	}
	return err
}

// handleIMSIDetach covers 04.08 9.2.12. The message is never answered.
func handleIMSIDetach(conn *context.SignalingConn, raw []byte) error {
	net := conn.Net
	body := raw[gsm48.HeaderLen:]
	if len(body) < 2 {
		return gsm48.ErrTooShort
	}
	classmark1 := body[0]
	miLen := int(body[1])
	if len(body) < 2+miLen {
		return gsm48.ErrTooShort
	}
	mi := body[2 : 2+miLen]
	miType, miString, err := gsm48.DecodeMobileIdentity(mi)
	if err != nil {
		return err
	}
	logger.MmLog.Infof("IMSI DETACH INDICATION: MI(%d)=%s", miType, miString)
	metrics.IncrLocUpdateType("detach")

	var subscr *context.Subscriber
	switch miType {
	case gsm48.MITypeTMSI:
		if tmsi, err := gsm48.DecodeTMSI(mi); err == nil {
			subscr = net.Subscribers.ByTMSI(tmsi)
		}
	case gsm48.MITypeIMSI:
		subscr = net.Subscribers.ByIMSI(miString)
	default:
		logger.MmLog.Debugf("detach with unusable identity type %d", miType)
	}

	if subscr != nil {
		net.Subscribers.Detach(subscr)
		logger.MmLog.Infof("subscriber %s detached", subscr.Label())
		subscr.Equipment.Classmark1 = classmark1
		net.Subscribers.UpdateEquipment(subscr)
	} else {
		logger.MmLog.Debugln("detach from unknown subscriber")
	}

	conn.ReleaseAnchor()
	return nil
}

func handleMMStatus(raw []byte) error {
	body := raw[gsm48.HeaderLen:]
	if len(body) < 1 {
		return gsm48.ErrTooShort
	}
	logger.MmLog.Debugf("MM STATUS (reject cause 0x%02x)", body[0])
	return nil
}

// CancelOperations tears down any pending MM procedures on a dying
// connection. The security callback is told authentication failed so its
// owner can clean up.
func CancelOperations(conn *context.SignalingConn) {
	locUpdatingFailure(conn)
	if conn.Sec != nil && conn.Sec.Cb != nil {
		conn.Sec.Cb(context.SecurityAuthFailed, conn)
	}
	releaseSecurityOperation(conn)
}

// Receive routes one Mobility Management message.
func Receive(conn *context.SignalingConn, raw []byte) error {
	switch gsm48.HdrMsgTypeMM(raw) {
	case gsm48.MTMMLocUpdRequest:
		return handleLocUpdRequest(conn, raw)
	case gsm48.MTMMIdentityResponse:
		return handleIdentityResponse(conn, raw)
	case gsm48.MTMMCMServiceRequest:
		return handleCMServiceRequest(conn, raw)
	case gsm48.MTMMStatus:
		return handleMMStatus(raw)
	case gsm48.MTMMTmsiReallocCompl:
		logger.MmLog.Debugf("TMSI reallocation completed, subscriber %s",
			conn.Subscriber.Label())
		locUpdatingSuccess(conn)
		return nil
	case gsm48.MTMMImsiDetachInd:
		return handleIMSIDetach(conn, raw)
	case gsm48.MTMMCMReestablishReq:
		logger.MmLog.Debugln("CM REESTABLISH REQUEST: not implemented")
		return nil
	case gsm48.MTMMAuthResponse:
		return handleAuthResponse(conn, raw)
	case gsm48.MTMMAuthFailure:
		return handleAuthFailure(conn, raw)
	default:
		logger.MmLog.Infof("unknown MM message type 0x%02x", gsm48.HdrMsgType(raw))
		return nil
	}
}
