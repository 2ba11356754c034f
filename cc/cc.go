// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

// Package cc implements the Call Control state machine: one instance per
// transaction, driven from two directions. Messages from the device go
// through the inbound dispatch table, events from the call-routing backend
// through the outbound one. Anything that does not match the current call
// state is dropped.
package cc

import (
	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/metrics"
	"msc/mncc"
)

// sendToDevice is a variable so tests can capture outbound messages.
var sendToDevice = func(trans *context.Transaction, l3 []byte) error {
	if trans.Conn == nil {
		return context.ErrConnClosed
	}
	return trans.Conn.Send(l3)
}

var defaultCause = gsm48.Cause{
	Coding:   3,
	Location: gsm48.CauseLocPrivateLocal,
	Value:    gsm48.CCCauseNormalUnspec,
}

func newCC(trans *context.Transaction, msgType uint8) *gsm48.Builder {
	m := gsm48.NewBuilder(gsm48.PDiscCC, msgType)
	m.StampTransID(trans.TransactionID)
	return m
}

// notifyBackend hands one indication or confirm up to the call-routing
// backend.
func notifyBackend(net *context.MSC, trans *context.Transaction, typ mncc.EventType, ev *mncc.Event) {
	ev.Type = typ
	if trans != nil {
		ev.Callref = trans.Callref
		logger.MnccLog.Debugf("(ti %x sub %s) sending %s to backend",
			trans.TransactionID, trans.Subscriber.Label(), typ)
	} else {
		logger.MnccLog.Debugf("sending %s to backend (callref 0x%x)", typ, ev.Callref)
	}
	net.DeliverToBackend(ev)
}

// releaseInd tells the backend the call is gone. A transaction that already
// asked for release gets a confirm instead of an indication.
func releaseInd(net *context.MSC, trans *context.Transaction, callref uint32, location, value uint8) {
	rel := mncc.Event{Callref: callref}
	rel.SetCause(location, value)
	if trans != nil && trans.CC.State == StateReleaseReq {
		notifyBackend(net, trans, mncc.RelCnf, &rel)
		return
	}
	notifyBackend(net, trans, mncc.RelInd, &rel)
}

// ReleaseTransaction tears one call down. The backend gets a release
// indication when the call reference is still live, then the transaction
// drops back to NULL and is freed. Safe on an already-released transaction.
func ReleaseTransaction(trans *context.Transaction) {
	stopTimer(trans)
	if trans.Callref != 0 {
		releaseInd(trans.Net, trans, trans.Callref,
			gsm48.CauseLocPrivateLocal, gsm48.CCCauseResourceUnavail)
		trans.Callref = 0
	}
	if trans.CC.State != StateNull {
		newState(trans, StateNull)
	}
	trans.Free()
}

// IE pick helpers shared by the inbound handlers.

func takeBearerCap(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IEBearerCap) {
		return
	}
	bc, err := gsm48.DecodeBearerCap(ies.Val(gsm48.IEBearerCap))
	if err != nil {
		return
	}
	ev.Fields |= mncc.FBearerCap
	ev.BearerCap = bc
}

func takeCause(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IECause) {
		return
	}
	c, err := gsm48.DecodeCause(ies.Val(gsm48.IECause))
	if err != nil {
		return
	}
	ev.Fields |= mncc.FCause
	ev.Cause = c
}

func takeFacility(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IEFacility) {
		return
	}
	ev.Fields |= mncc.FFacility
	ev.Facility = append([]byte(nil), ies.Val(gsm48.IEFacility)...)
}

func takeProgress(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IEProgress) {
		return
	}
	p, err := gsm48.DecodeProgress(ies.Val(gsm48.IEProgress))
	if err != nil {
		return
	}
	ev.Fields |= mncc.FProgress
	ev.Progress = p
}

func takeUserUser(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IEUserUser) {
		return
	}
	uu, err := gsm48.DecodeUserUser(ies.Val(gsm48.IEUserUser))
	if err != nil {
		return
	}
	ev.Fields |= mncc.FUserUser
	ev.UserUser = uu
}

func takeSSVersion(ev *mncc.Event, ies gsm48.IEMap) {
	if !ies.Present(gsm48.IESSVersion) {
		return
	}
	ev.Fields |= mncc.FSSVersion
	ev.SSVersion = append([]byte(nil), ies.Val(gsm48.IESSVersion)...)
}

/* mobile originating call establishment */

func rxSetup(trans *context.Transaction, msgType uint8, payload []byte) error {
	setup := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)

	// emergency setup is identified by the message type
	if msgType == gsm48.MTCCEmergSetup {
		setup.Fields |= mncc.FEmergency
	}

	// the registered subscriber is the calling party
	setup.Fields |= mncc.FCalling
	setup.Calling.Number = trans.Subscriber.Extension
	setup.IMSI = trans.Subscriber.IMSI

	takeBearerCap(&setup, ies)
	takeFacility(&setup, ies)
	if ies.Present(gsm48.IECalledBCD) {
		if n, err := gsm48.DecodeNumber(ies.Val(gsm48.IECalledBCD)); err == nil {
			setup.Fields |= mncc.FCalled
			setup.Called = n
		}
	}
	takeUserUser(&setup, ies)
	takeSSVersion(&setup, ies)
	if ies.Present(gsm48.IECLIRSupp) {
		setup.CLIRSup = true
	}
	if ies.Present(gsm48.IECLIRInvoc) {
		setup.CLIRInv = true
	}
	if ies.Present(gsm48.IECCCap) {
		if v := ies.Val(gsm48.IECCCap); len(v) >= 1 {
			setup.Fields |= mncc.FCCCap
			setup.DTMFSupported = v[0]&0x01 != 0
		}
	}

	newState(trans, StateInitiated)

	logger.CcLog.Infof("subscriber %s sends SETUP to %s",
		trans.Subscriber.Label(), setup.Called.Number)

	metrics.IncrCallEvent("mo_setup")

	notifyBackend(trans.Net, trans, mncc.SetupInd, &setup)
	return nil
}

func txSetup(trans *context.Transaction, ev *mncc.Event) error {
	// the transaction id must not be assigned yet
	if trans.TransactionID != context.TransactionIDUnassigned {
		logger.CcLog.Errorf("callref 0x%x: TX SETUP with assigned transaction", trans.Callref)
		releaseInd(trans.Net, trans, trans.Callref,
			gsm48.CauseLocPrivateLocal, gsm48.CCCauseResourceUnavail)
		trans.Callref = 0
		ReleaseTransaction(trans)
		return nil
	}

	tid, err := trans.Net.AssignTransactionID(trans.Subscriber, gsm48.PDiscCC, false)
	if err != nil {
		releaseInd(trans.Net, trans, trans.Callref,
			gsm48.CauseLocPrivateLocal, gsm48.CCCauseResourceUnavail)
		trans.Callref = 0
		ReleaseTransaction(trans)
		return nil
	}
	trans.TransactionID = tid

	m := newCC(trans, gsm48.MTCCSetup)

	startTimer(trans, 0x303)

	if ev.Has(mncc.FBearerCap) {
		m.PutTLV(gsm48.IEBearerCap, gsm48.EncodeBearerCapValue(&ev.BearerCap))
	}
	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FProgress) {
		m.PutTLV(gsm48.IEProgress, gsm48.EncodeProgressValue(&ev.Progress))
	}
	if ev.Has(mncc.FCalling) {
		if err := gsm48.EncodeCallerID(m, gsm48.IECallingBCD, &ev.Calling); err != nil {
			return err
		}
	}
	if ev.Has(mncc.FCalled) {
		if err := gsm48.EncodeCalled(m, gsm48.IECalledBCD, &ev.Called); err != nil {
			return err
		}
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}
	if ev.Has(mncc.FRedirecting) {
		if err := gsm48.EncodeCallerID(m, gsm48.IERedirBCD, &ev.Redirecting); err != nil {
			return err
		}
	}
	if ev.Fields&mncc.FSignal != 0 {
		m.PutTV(gsm48.IESignal, ev.Signal)
	}

	newState(trans, StateCallPresent)

	metrics.IncrCallEvent("mt_setup")

	return sendToDevice(trans, m.Bytes())
}

func rxCallConf(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)
	startTimer(trans, 0x310)

	conf := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeBearerCap(&conf, ies)
	takeCause(&conf, ies)
	if ies.Present(gsm48.IECCCap) {
		if v := ies.Val(gsm48.IECCCap); len(v) >= 1 {
			conf.Fields |= mncc.FCCCap
			conf.DTMFSupported = v[0]&0x01 != 0
		}
	}
	conf.IMSI = trans.Subscriber.IMSI

	newState(trans, StateMtCallConf)

	notifyBackend(trans.Net, trans, mncc.CallConfInd, &conf)
	return nil
}

func txCallProc(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCCallProc)

	newState(trans, StateMoCallProc)

	if ev.Has(mncc.FBearerCap) {
		m.PutTLV(gsm48.IEBearerCap, gsm48.EncodeBearerCapValue(&ev.BearerCap))
	}
	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FProgress) {
		m.PutTLV(gsm48.IEProgress, gsm48.EncodeProgressValue(&ev.Progress))
	}

	return sendToDevice(trans, m.Bytes())
}

func rxAlerting(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)
	startTimer(trans, 0x301)

	alerting := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeFacility(&alerting, ies)
	takeProgress(&alerting, ies)
	takeSSVersion(&alerting, ies)

	newState(trans, StateCallReceived)

	notifyBackend(trans.Net, trans, mncc.AlertInd, &alerting)
	return nil
}

func txAlerting(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCAlerting)

	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FProgress) {
		m.PutTLV(gsm48.IEProgress, gsm48.EncodeProgressValue(&ev.Progress))
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	newState(trans, StateCallDelivered)

	return sendToDevice(trans, m.Bytes())
}

func txProgress(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCProgress)

	m.PutLV(gsm48.EncodeProgressValue(&ev.Progress))
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	return sendToDevice(trans, m.Bytes())
}

func txConnect(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCConnect)

	stopTimer(trans)
	startTimer(trans, 0x313)

	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FProgress) {
		m.PutTLV(gsm48.IEProgress, gsm48.EncodeProgressValue(&ev.Progress))
	}
	if ev.Has(mncc.FConnected) {
		if err := gsm48.EncodeCallerID(m, gsm48.IEConnectBCD, &ev.Connected); err != nil {
			return err
		}
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	newState(trans, StateConnectInd)

	return sendToDevice(trans, m.Bytes())
}

func rxConnect(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	connect := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)

	// the registered subscriber is the connected party
	connect.Fields |= mncc.FConnected
	connect.Connected.Number = trans.Subscriber.Extension
	connect.IMSI = trans.Subscriber.IMSI

	takeFacility(&connect, ies)
	takeUserUser(&connect, ies)
	takeSSVersion(&connect, ies)

	newState(trans, StateConnectRequest)

	metrics.IncrCallEvent("mt_connect")

	notifyBackend(trans.Net, trans, mncc.SetupCnf, &connect)
	return nil
}

func rxConnectAck(trans *context.Transaction, _ uint8, _ []byte) error {
	stopTimer(trans)

	ack := mncc.Event{Callref: trans.Callref}

	newState(trans, StateActive)

	metrics.IncrCallEvent("mo_connect_ack")

	notifyBackend(trans.Net, trans, mncc.SetupComplInd, &ack)
	return nil
}

func txConnectAck(trans *context.Transaction, _ *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCConnectAck)

	newState(trans, StateActive)

	return sendToDevice(trans, m.Bytes())
}

/* clearing */

func rxDisconnect(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	disc := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeCause(&disc, ies)
	takeFacility(&disc, ies)
	takeUserUser(&disc, ies)
	takeSSVersion(&disc, ies)

	newState(trans, StateDisconnectReq)

	notifyBackend(trans.Net, trans, mncc.DiscInd, &disc)
	return nil
}

func txDisconnect(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCDisconnect)

	stopTimer(trans)
	startTimer(trans, 0x306)

	if ev.Has(mncc.FCause) {
		m.PutLV(gsm48.EncodeCauseValue(&ev.Cause))
	} else {
		m.PutLV(gsm48.EncodeCauseValue(&defaultCause))
	}
	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FProgress) {
		m.PutTLV(gsm48.IEProgress, gsm48.EncodeProgressValue(&ev.Progress))
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	// keep the disconnect around for the T306 expiry path
	trans.CC.Msg = *ev
	if !ev.Has(mncc.FCause) {
		trans.CC.Msg.Fields |= mncc.FCause
		trans.CC.Msg.Cause = defaultCause
	}

	newState(trans, StateDisconnectInd)

	return sendToDevice(trans, m.Bytes())
}

func rxRelease(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	rel := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeCause(&rel, ies)
	takeFacility(&rel, ies)
	takeUserUser(&rel, ies)
	takeSSVersion(&rel, ies)

	if trans.Callref != 0 {
		if trans.CC.State == StateReleaseReq {
			// release collision, 5.4.5
			notifyBackend(trans.Net, trans, mncc.RelCnf, &rel)
		} else {
			m := newCC(trans, gsm48.MTCCReleaseCompl)
			if err := sendToDevice(trans, m.Bytes()); err != nil {
				logger.CcLog.Warnf("callref 0x%x: release complete not sent: %v",
					trans.Callref, err)
			}
			notifyBackend(trans.Net, trans, mncc.RelInd, &rel)
		}
	}

	trans.Callref = 0
	ReleaseTransaction(trans)
	return nil
}

func txRelease(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCRelease)

	stopTimer(trans)
	startTimer(trans, 0x308)

	if ev.Has(mncc.FCause) {
		m.PutTLV(gsm48.IECause, gsm48.EncodeCauseValue(&ev.Cause))
	}
	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	trans.CC.T308Second = false
	trans.CC.Msg = *ev

	if trans.CC.State != StateReleaseReq {
		newState(trans, StateReleaseReq)
	}

	return sendToDevice(trans, m.Bytes())
}

func rxReleaseCompl(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	rel := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeCause(&rel, ies)
	takeFacility(&rel, ies)
	takeUserUser(&rel, ies)
	takeSSVersion(&rel, ies)

	if trans.Callref != 0 {
		switch trans.CC.State {
		case StateCallPresent:
			notifyBackend(trans.Net, trans, mncc.RejInd, &rel)
		case StateReleaseReq:
			notifyBackend(trans.Net, trans, mncc.RelCnf, &rel)
		default:
			notifyBackend(trans.Net, trans, mncc.RelInd, &rel)
		}
	}

	trans.Callref = 0
	ReleaseTransaction(trans)
	return nil
}

func txReleaseCompl(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCReleaseCompl)

	trans.Callref = 0

	stopTimer(trans)

	if ev.Has(mncc.FCause) {
		m.PutTLV(gsm48.IECause, gsm48.EncodeCauseValue(&ev.Cause))
	}
	if ev.Has(mncc.FFacility) {
		m.PutTLV(gsm48.IEFacility, ev.Facility)
	}
	if ev.Has(mncc.FUserUser) {
		m.PutTLV(gsm48.IEUserUser, gsm48.EncodeUserUserValue(&ev.UserUser))
	}

	err := sendToDevice(trans, m.Bytes())

	ReleaseTransaction(trans)
	return err
}

/* signalling during the call */

func rxFacility(trans *context.Transaction, _ uint8, payload []byte) error {
	fac := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeFacility(&fac, ies)
	takeSSVersion(&fac, ies)

	notifyBackend(trans.Net, trans, mncc.FacilityInd, &fac)
	return nil
}

func txFacility(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCFacility)

	m.PutLV(ev.Facility)

	return sendToDevice(trans, m.Bytes())
}

func rxHold(trans *context.Transaction, _ uint8, _ []byte) error {
	hold := mncc.Event{Callref: trans.Callref}
	notifyBackend(trans.Net, trans, mncc.HoldInd, &hold)
	return nil
}

func txHoldAck(trans *context.Transaction, _ *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCHoldAck)
	return sendToDevice(trans, m.Bytes())
}

func txHoldRej(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCHoldReject)

	if ev.Has(mncc.FCause) {
		m.PutLV(gsm48.EncodeCauseValue(&ev.Cause))
	} else {
		m.PutLV(gsm48.EncodeCauseValue(&defaultCause))
	}

	return sendToDevice(trans, m.Bytes())
}

func rxRetrieve(trans *context.Transaction, _ uint8, _ []byte) error {
	retr := mncc.Event{Callref: trans.Callref}
	notifyBackend(trans.Net, trans, mncc.RetrieveInd, &retr)
	return nil
}

func txRetrieveAck(trans *context.Transaction, _ *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCRetrieveAck)
	return sendToDevice(trans, m.Bytes())
}

func txRetrieveRej(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCRetrieveRej)

	if ev.Has(mncc.FCause) {
		m.PutLV(gsm48.EncodeCauseValue(&ev.Cause))
	} else {
		m.PutLV(gsm48.EncodeCauseValue(&defaultCause))
	}

	return sendToDevice(trans, m.Bytes())
}

func rxStartDTMF(trans *context.Transaction, _ uint8, payload []byte) error {
	dtmf := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	if ies.Present(gsm48.IEKeypad) {
		if v := ies.Val(gsm48.IEKeypad); len(v) >= 1 {
			dtmf.Fields |= mncc.FKeypad
			dtmf.Keypad = v[0]
		}
	}

	notifyBackend(trans.Net, trans, mncc.StartDTMFInd, &dtmf)
	return nil
}

func txStartDTMFAck(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCStartDTMFAck)

	if ev.Has(mncc.FKeypad) {
		m.PutTV(gsm48.IEKeypad, ev.Keypad)
	}

	return sendToDevice(trans, m.Bytes())
}

func txStartDTMFRej(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCStartDTMFRej)

	if ev.Has(mncc.FCause) {
		m.PutLV(gsm48.EncodeCauseValue(&ev.Cause))
	} else {
		m.PutLV(gsm48.EncodeCauseValue(&defaultCause))
	}

	return sendToDevice(trans, m.Bytes())
}

func rxStopDTMF(trans *context.Transaction, _ uint8, _ []byte) error {
	dtmf := mncc.Event{Callref: trans.Callref}
	notifyBackend(trans.Net, trans, mncc.StopDTMFInd, &dtmf)
	return nil
}

func txStopDTMFAck(trans *context.Transaction, _ *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCStopDTMFAck)
	return sendToDevice(trans, m.Bytes())
}

/* in-call modification */

func rxModify(trans *context.Transaction, _ uint8, payload []byte) error {
	modify := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeBearerCap(&modify, ies)

	newState(trans, StateMoOrigModify)

	notifyBackend(trans.Net, trans, mncc.ModifyInd, &modify)
	return nil
}

func txModify(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCModify)

	startTimer(trans, 0x323)

	m.PutLV(gsm48.EncodeBearerCapValue(&ev.BearerCap))

	newState(trans, StateMoTermModify)

	return sendToDevice(trans, m.Bytes())
}

func rxModifyCompl(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	modify := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeBearerCap(&modify, ies)

	newState(trans, StateActive)

	notifyBackend(trans.Net, trans, mncc.ModifyCnf, &modify)
	return nil
}

func txModifyCompl(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCModifyCompl)

	m.PutLV(gsm48.EncodeBearerCapValue(&ev.BearerCap))

	newState(trans, StateActive)

	return sendToDevice(trans, m.Bytes())
}

func rxModifyReject(trans *context.Transaction, _ uint8, payload []byte) error {
	stopTimer(trans)

	modify := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeBearerCap(&modify, ies)
	takeCause(&modify, ies)

	newState(trans, StateActive)

	notifyBackend(trans.Net, trans, mncc.ModifyRej, &modify)
	return nil
}

func txModifyReject(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCModifyReject)

	m.PutLV(gsm48.EncodeBearerCapValue(&ev.BearerCap))
	m.PutLV(gsm48.EncodeCauseValue(&ev.Cause))

	newState(trans, StateActive)

	return sendToDevice(trans, m.Bytes())
}

func txNotify(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCNotify)

	m.PutByte(ev.Notify)

	return sendToDevice(trans, m.Bytes())
}

func rxNotify(trans *context.Transaction, _ uint8, payload []byte) error {
	notify := mncc.Event{Callref: trans.Callref}
	if len(payload) >= 1 {
		notify.Notify = payload[0] & 0x7f
	}

	notifyBackend(trans.Net, trans, mncc.NotifyInd, &notify)
	return nil
}

func txUserInfo(trans *context.Transaction, ev *mncc.Event) error {
	m := newCC(trans, gsm48.MTCCUserInfo)

	if ev.Has(mncc.FUserUser) {
		m.PutLV(gsm48.EncodeUserUserValue(&ev.UserUser))
	}
	if ev.More {
		m.PutT(gsm48.IEMoreData)
	}

	return sendToDevice(trans, m.Bytes())
}

func rxUserInfo(trans *context.Transaction, _ uint8, payload []byte) error {
	user := mncc.Event{Callref: trans.Callref}
	ies, _ := gsm48.ParseIEs(gsm48.CCIEs, payload)
	takeUserUser(&user, ies)
	if ies.Present(gsm48.IEMoreData) {
		user.More = true
	}

	notifyBackend(trans.Net, trans, mncc.UserInfoInd, &user)
	return nil
}

func txStatus(trans *context.Transaction) error {
	m := newCC(trans, gsm48.MTCCStatus)

	m.PutLV(gsm48.EncodeCauseValue(&gsm48.Cause{
		Coding:   3,
		Location: gsm48.CauseLocUser,
		Value:    gsm48.CCCauseRespStatusInquiry,
	}))
	m.PutByte(gsm48.EncodeCallStateValue(0))

	return sendToDevice(trans, m.Bytes())
}

func rxStatusEnq(trans *context.Transaction, _ uint8, _ []byte) error {
	return txStatus(trans)
}
