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

// rtpError answers a media event with an all-zero endpoint so the backend
// notices the operation failed.
func rtpError(net *context.MSC, callref uint32, typ mncc.EventType) {
	ev := mncc.Event{Callref: callref}
	notifyBackend(net, nil, typ, &ev)
}

// tchBridge connects the traffic channels of two calls. If the bridge
// cannot be set up, both legs are sent a disconnect.
func tchBridge(net *context.MSC, ev *mncc.Event) error {
	trans1 := net.TransFindByCallref(ev.Callref)
	trans2 := net.TransFindByCallref(ev.BridgePeer)
	if trans1 == nil || trans2 == nil {
		return context.ErrConnClosed
	}
	if trans1.Conn == nil || trans2.Conn == nil {
		return context.ErrConnClosed
	}
	if net.Media == nil {
		return context.ErrConnClosed
	}

	if err := net.Media.Bridge(trans1.Conn, trans2.Conn); err != nil {
		logger.CcLog.Errorf("failed to bridge calls 0x%x <-> 0x%x: %v",
			trans1.Callref, trans2.Callref, err)
		disconnectBridge(trans1, trans2)
		return err
	}
	return nil
}

func disconnectBridge(trans1, trans2 *context.Transaction) {
	rel := mncc.Event{}
	rel.SetCause(gsm48.CauseLocPublicLocal, gsm48.CCCauseChanUnacceptable)

	rel.Callref = trans1.Callref
	if err := txDisconnect(trans1, &rel); err != nil {
		logger.CcLog.Warnf("callref 0x%x: disconnect not sent: %v", trans1.Callref, err)
	}

	rel.Callref = trans2.Callref
	if err := txDisconnect(trans2, &rel); err != nil {
		logger.CcLog.Warnf("callref 0x%x: disconnect not sent: %v", trans2.Callref, err)
	}
}

func tchFrame(net *context.MSC, callref uint32, enable bool) error {
	trans := net.TransFindByCallref(callref)
	if trans == nil {
		logger.CcLog.Errorln("frame control for non-existing transaction")
		return context.ErrConnClosed
	}
	if trans.Conn == nil {
		logger.CcLog.Warnln("frame control for transaction without connection")
		return nil
	}
	if net.Media == nil {
		return context.ErrConnClosed
	}
	return net.Media.FrameRecv(trans.Conn, enable)
}

func tchRTPCreate(net *context.MSC, callref uint32) error {
	trans := net.TransFindByCallref(callref)
	if trans == nil {
		logger.CcLog.Errorln("RTP create for non-existing transaction")
		rtpError(net, callref, mncc.RTPCreate)
		return context.ErrConnClosed
	}
	if trans.Conn == nil {
		logger.CcLog.Warnln("RTP create for transaction without connection")
		rtpError(net, callref, mncc.RTPCreate)
		return nil
	}
	if net.Media == nil {
		rtpError(net, callref, mncc.RTPCreate)
		return context.ErrConnClosed
	}

	info, err := net.Media.RTPCreate(trans.Conn)
	if err != nil {
		logger.CcLog.Errorf("callref 0x%x: RTP create failed: %v", callref, err)
		rtpError(net, callref, mncc.RTPCreate)
		return err
	}

	ev := mncc.Event{
		Callref:        callref,
		RTPIP:          info.IP,
		RTPPort:        info.Port,
		RTPPayloadType: info.PayloadType,
	}
	notifyBackend(net, trans, mncc.RTPCreate, &ev)
	return nil
}

func tchRTPConnect(net *context.MSC, ev *mncc.Event) error {
	trans := net.TransFindByCallref(ev.Callref)
	if trans == nil {
		logger.CcLog.Errorln("RTP connect for non-existing transaction")
		rtpError(net, ev.Callref, mncc.RTPConnect)
		return context.ErrConnClosed
	}
	if trans.Conn == nil {
		logger.CcLog.Errorln("RTP connect for transaction without connection")
		rtpError(net, ev.Callref, mncc.RTPConnect)
		return nil
	}
	if net.Media == nil {
		rtpError(net, ev.Callref, mncc.RTPConnect)
		return context.ErrConnClosed
	}

	peer := context.RTPInfo{
		IP:          ev.RTPIP,
		Port:        ev.RTPPort,
		PayloadType: ev.RTPPayloadType,
	}
	if err := net.Media.RTPConnect(trans.Conn, &peer); err != nil {
		logger.CcLog.Errorf("callref 0x%x: RTP connect failed: %v", ev.Callref, err)
		rtpError(net, ev.Callref, mncc.RTPConnect)
		return err
	}

	ack := mncc.Event{
		Callref:        ev.Callref,
		RTPIP:          ev.RTPIP,
		RTPPort:        ev.RTPPort,
		RTPPayloadType: ev.RTPPayloadType,
	}
	notifyBackend(net, trans, mncc.RTPConnect, &ack)
	return nil
}
