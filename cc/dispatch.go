// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package cc

import (
	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/mncc"
)

type downstate struct {
	states uint32
	typ    mncc.EventType
	rout   func(trans *context.Transaction, ev *mncc.Event) error
}

var downstatelist = []downstate{
	/* mobile originating call establishment */
	{sbit(StateInitiated), /* 5.2.1.2 */
		mncc.CallProcReq, txCallProc},
	{sbit(StateInitiated) | sbit(StateMoCallProc), /* 5.2.1.2 | 5.2.1.5 */
		mncc.AlertReq, txAlerting},
	{sbit(StateInitiated) | sbit(StateMoCallProc) | sbit(StateCallDelivered), /* 5.2.1.2 | 5.2.1.6 | 5.2.1.6 */
		mncc.SetupRsp, txConnect},
	{sbit(StateMoCallProc), /* 5.2.1.4.2 */
		mncc.ProgressReq, txProgress},
	/* mobile terminating call establishment */
	{sbit(StateNull), /* 5.2.2.1 */
		mncc.SetupReq, txSetup},
	{sbit(StateConnectRequest),
		mncc.SetupComplReq, txConnectAck},
	/* signalling during call */
	{sbit(StateActive),
		mncc.NotifyReq, txNotify},
	{allStates - sbit(StateNull) - sbit(StateReleaseReq),
		mncc.FacilityReq, txFacility},
	{allStates,
		mncc.StartDTMFRsp, txStartDTMFAck},
	{allStates,
		mncc.StartDTMFRej, txStartDTMFRej},
	{allStates,
		mncc.StopDTMFRsp, txStopDTMFAck},
	{sbit(StateActive),
		mncc.HoldCnf, txHoldAck},
	{sbit(StateActive),
		mncc.HoldRej, txHoldRej},
	{sbit(StateActive),
		mncc.RetrieveCnf, txRetrieveAck},
	{sbit(StateActive),
		mncc.RetrieveRej, txRetrieveRej},
	{sbit(StateActive),
		mncc.ModifyReq, txModify},
	{sbit(StateMoOrigModify),
		mncc.ModifyRsp, txModifyCompl},
	{sbit(StateMoOrigModify),
		mncc.ModifyRej, txModifyReject},
	{sbit(StateActive),
		mncc.UserInfoReq, txUserInfo},
	/* clearing */
	{sbit(StateInitiated),
		mncc.RejReq, txReleaseCompl},
	{allStates - sbit(StateNull) - sbit(StateDisconnectInd) - sbit(StateReleaseReq) - sbit(StateDisconnectReq), /* 5.4.4 */
		mncc.DiscReq, txDisconnect},
	{allStates - sbit(StateNull) - sbit(StateReleaseReq), /* 5.4.3.2 */
		mncc.RelReq, txRelease},
}

type datastate struct {
	states uint32
	typ    uint8
	rout   func(trans *context.Transaction, msgType uint8, payload []byte) error
}

var datastatelist = []datastate{
	/* mobile originating call establishment */
	{sbit(StateNull), /* 5.2.1.2 */
		gsm48.MTCCSetup, rxSetup},
	{sbit(StateNull), /* 5.2.1.2 */
		gsm48.MTCCEmergSetup, rxSetup},
	{sbit(StateConnectInd), /* 5.2.1.2 */
		gsm48.MTCCConnectAck, rxConnectAck},
	/* mobile terminating call establishment */
	{sbit(StateCallPresent), /* 5.2.2.3.2 */
		gsm48.MTCCCallConf, rxCallConf},
	{sbit(StateCallPresent) | sbit(StateMtCallConf), /* 5.2.2.3.2 */
		gsm48.MTCCAlerting, rxAlerting},
	{sbit(StateCallPresent) | sbit(StateMtCallConf) | sbit(StateCallReceived), /* 5.2.2.6 */
		gsm48.MTCCConnect, rxConnect},
	/* signalling during call */
	{allStates - sbit(StateNull),
		gsm48.MTCCFacility, rxFacility},
	{sbit(StateActive),
		gsm48.MTCCNotify, rxNotify},
	{allStates,
		gsm48.MTCCStartDTMF, rxStartDTMF},
	{allStates,
		gsm48.MTCCStopDTMF, rxStopDTMF},
	{allStates,
		gsm48.MTCCStatusEnq, rxStatusEnq},
	{sbit(StateActive),
		gsm48.MTCCHold, rxHold},
	{sbit(StateActive),
		gsm48.MTCCRetrieve, rxRetrieve},
	{sbit(StateActive),
		gsm48.MTCCModify, rxModify},
	{sbit(StateMoTermModify),
		gsm48.MTCCModifyCompl, rxModifyCompl},
	{sbit(StateMoTermModify),
		gsm48.MTCCModifyReject, rxModifyReject},
	{sbit(StateActive),
		gsm48.MTCCUserInfo, rxUserInfo},
	/* clearing */
	{allStates - sbit(StateNull) - sbit(StateReleaseReq), /* 5.4.3.2 */
		gsm48.MTCCDisconnect, rxDisconnect},
	{allStates - sbit(StateNull), /* 5.4.4.1.2.2 */
		gsm48.MTCCRelease, rxRelease},
	{allStates, /* 5.4.3.4 */
		gsm48.MTCCReleaseCompl, rxReleaseCompl},
}

// Receive dispatches one Call Control message from the device. Unknown
// transaction identifiers open a fresh transaction; a message that does
// not fit the current call state is dropped.
func Receive(conn *context.SignalingConn, raw []byte) error {
	if len(raw) < gsm48.HeaderLen {
		return gsm48.ErrTooShort
	}
	msgType := gsm48.HdrMsgTypeMM(raw)
	if msgType&0x80 != 0 {
		logger.CcLog.Debugf("message 0x%02x not defined, dropping", msgType)
		return gsm48.ErrBadIE
	}
	tid := gsm48.FlipTransID(gsm48.HdrTransID(raw))

	if conn.Subscriber == nil {
		logger.CcLog.Errorln("call control message on a connection without subscriber")
		return context.ErrConnClosed
	}

	net := conn.Net
	trans := net.TransFindByID(conn, gsm48.PDiscCC, tid)

	logger.CcLog.Debugf("(ti %x sub %s) received 0x%02x in state %s",
		tid, conn.Subscriber.Label(), msgType,
		stateName(transState(trans)))

	if trans == nil {
		logger.CcLog.Debugf("unknown transaction id %x, creating new transaction", tid)
		trans = net.NewTransaction(conn.Subscriber, gsm48.PDiscCC, tid, net.NextCallref())
		trans.SetConn(conn)
	}

	for _, d := range datastatelist {
		if msgType == d.typ && sbit(trans.CC.State)&d.states != 0 {
			return d.rout(trans, msgType, raw[gsm48.HeaderLen:])
		}
	}
	logger.CcLog.Debugf("message 0x%02x unhandled in state %s", msgType, stateName(trans.CC.State))
	return nil
}

func transState(trans *context.Transaction) int {
	if trans == nil {
		return StateNull
	}
	return trans.CC.State
}

func connectionForSubscriber(net *context.MSC, subscr *context.Subscriber) *context.SignalingConn {
	var found *context.SignalingConn
	net.Connections.Range(func(_, v interface{}) bool {
		conn := v.(*context.SignalingConn)
		if conn.Subscriber == subscr && !conn.Closed() {
			found = conn
			return false
		}
		return true
	})
	return found
}

// setupPagingEvent resumes a network-originated setup once paging for the
// called subscriber concludes.
func setupPagingEvent(trans *context.Transaction, result context.PagingResult, conn *context.SignalingConn) {
	if trans.Net.TransFindByCallref(trans.Callref) != trans {
		return
	}
	if result == context.PagingSucceeded && conn != nil {
		trans.SetConn(conn)
		setup := trans.CC.Msg
		if err := txSetup(trans, &setup); err != nil {
			logger.CcLog.Errorf("callref 0x%x: setup after paging failed: %v",
				trans.Callref, err)
		}
		return
	}
	// paging expired or the subscriber was busy
	releaseInd(trans.Net, trans, trans.Callref,
		gsm48.CauseLocPrivateLocal, gsm48.CCCauseDestOutOfOrder)
	trans.Callref = 0
	ReleaseTransaction(trans)
}

// FromBackend dispatches one event from the call-routing backend. Media
// plane events are forwarded to the media controller, a setup request for
// an idle subscriber triggers paging, everything else runs through the
// outbound dispatch table.
func FromBackend(net *context.MSC, ev *mncc.Event) error {
	logger.MnccLog.Debugf("receive event %s (callref 0x%x)", ev.Type, ev.Callref)

	switch ev.Type {
	case mncc.Bridge:
		return tchBridge(net, ev)
	case mncc.FrameDrop:
		return tchFrame(net, ev.Callref, false)
	case mncc.FrameRecv:
		return tchFrame(net, ev.Callref, true)
	case mncc.RTPCreate:
		return tchRTPCreate(net, ev.Callref)
	case mncc.RTPConnect:
		return tchRTPConnect(net, ev)
	case mncc.RTPFree:
		return context.ErrConnClosed
	}

	trans := net.TransFindByCallref(ev.Callref)
	if trans == nil {
		if ev.Type != mncc.SetupReq {
			logger.CcLog.Debugf("received %s with unknown callref 0x%x", ev.Type, ev.Callref)
			releaseInd(net, nil, ev.Callref,
				gsm48.CauseLocPrivateLocal, gsm48.CCCauseInvalTransID)
			return nil
		}
		if ev.Called.Number == "" && ev.IMSI == "" {
			logger.CcLog.Debugf("received %s with no number or IMSI", ev.Type)
			releaseInd(net, nil, ev.Callref,
				gsm48.CauseLocPrivateLocal, gsm48.CCCauseInvNumberFormat)
			return nil
		}

		var subscr *context.Subscriber
		if ev.Called.Number != "" {
			subscr = net.Subscribers.ByExtension(ev.Called.Number)
		} else {
			subscr = net.Subscribers.ByIMSI(ev.IMSI)
		}
		if subscr == nil {
			logger.CcLog.Infof("received %s for unknown subscriber %s",
				ev.Type, ev.Called.Number)
			releaseInd(net, nil, ev.Callref,
				gsm48.CauseLocPrivateLocal, gsm48.CCCauseUnassignedNumber)
			return nil
		}
		if subscr.LAC == 0 {
			logger.CcLog.Infof("received %s for detached subscriber %s",
				ev.Type, subscr.Label())
			releaseInd(net, nil, ev.Callref,
				gsm48.CauseLocPrivateLocal, gsm48.CCCauseDestOutOfOrder)
			return nil
		}

		conn := connectionForSubscriber(net, subscr)
		if conn == nil {
			if net.TransPagingFor(subscr) {
				logger.CcLog.Debugf("received %s for %s, paging already started",
					ev.Type, subscr.Label())
				return nil
			}
			trans = net.NewTransaction(subscr, gsm48.PDiscCC,
				context.TransactionIDUnassigned, ev.Callref)
			// hold the setup until the subscriber answers the page
			trans.CC.Msg = *ev
			err := net.StartPaging(subscr, func(result context.PagingResult, conn *context.SignalingConn) {
				setupPagingEvent(trans, result, conn)
			})
			if err != nil {
				logger.CcLog.Errorf("paging for %s failed to start: %v", subscr.Label(), err)
				ReleaseTransaction(trans)
			}
			return nil
		}

		trans = net.NewTransaction(subscr, gsm48.PDiscCC,
			context.TransactionIDUnassigned, ev.Callref)
		trans.SetConn(conn)
	}

	// paging did not respond yet
	if trans.Conn == nil {
		logger.CcLog.Debugf("received %s for %s in paging state",
			ev.Type, trans.Subscriber.Label())
		rel := mncc.Event{Callref: trans.Callref}
		rel.SetCause(gsm48.CauseLocPrivateLocal, gsm48.CCCauseNormalCallClearing)
		if ev.Type == mncc.RelReq {
			notifyBackend(net, trans, mncc.RelCnf, &rel)
		} else {
			notifyBackend(net, trans, mncc.RelInd, &rel)
		}
		trans.Callref = 0
		ReleaseTransaction(trans)
		return nil
	}

	logger.CcLog.Debugf("(ti %x sub %s) received %s in state %s",
		trans.TransactionID, trans.Subscriber.Label(), ev.Type,
		stateName(trans.CC.State))

	for _, d := range downstatelist {
		if ev.Type == d.typ && sbit(trans.CC.State)&d.states != 0 {
			return d.rout(trans, ev)
		}
	}
	logger.CcLog.Debugf("event %s unhandled in state %s", ev.Type, stateName(trans.CC.State))
	return nil
}
