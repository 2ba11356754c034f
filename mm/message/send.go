// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package message

import (
	"time"

	"msc/context"
	"msc/logger"
)

// sendDownlink is a variable so tests can capture outbound messages.
var sendDownlink = func(conn *context.SignalingConn, l3 []byte) error {
	return conn.Send(l3)
}

func SendLocationUpdatingAccept(conn *context.SignalingConn) error {
	net := conn.Net
	l3, err := BuildLocationUpdatingAccept(net, conn.Subscriber)
	if err != nil {
		logger.MmLog.Errorf("build LOCATION UPDATING ACCEPT: %v", err)
		return err
	}
	logger.MmLog.Infof("subscriber %s: -> LOCATION UPDATING ACCEPT LAC=%d",
		conn.Subscriber.Label(), net.LAC)
	return sendDownlink(conn, l3)
}

func SendLocationUpdatingReject(conn *context.SignalingConn, cause uint8) error {
	logger.MmLog.Infof("subscriber %s: -> LOCATION UPDATING REJECT cause=%d",
		conn.Subscriber.Label(), cause)
	return sendDownlink(conn, BuildLocationUpdatingReject(cause))
}

func SendIdentityRequest(conn *context.SignalingConn, idType uint8) error {
	logger.MmLog.Debugf("-> IDENTITY REQUEST type=%d", idType)
	return sendDownlink(conn, BuildIdentityRequest(idType))
}

func SendAuthenticationRequest(conn *context.SignalingConn, tuple *context.AuthTuple) error {
	logger.MmLog.Debugf("-> AUTHENTICATION REQUEST key_seq=%d", tuple.KeySeq)
	return sendDownlink(conn, BuildAuthenticationRequest(tuple))
}

func SendAuthenticationReject(conn *context.SignalingConn) error {
	logger.MmLog.Debugf("-> AUTHENTICATION REJECT")
	return sendDownlink(conn, BuildAuthenticationReject())
}

func SendCMServiceAccept(conn *context.SignalingConn) error {
	logger.MmLog.Debugf("-> CM SERVICE ACCEPT")
	return sendDownlink(conn, BuildCMServiceAccept())
}

func SendCMServiceReject(conn *context.SignalingConn, cause uint8) error {
	logger.MmLog.Infof("-> CM SERVICE REJECT cause=%d", cause)
	return sendDownlink(conn, BuildCMServiceReject(cause))
}

func SendMMInfo(conn *context.SignalingConn) error {
	logger.MmLog.Debugf("-> MM INFO")
	return sendDownlink(conn, BuildMMInfo(conn.Net, time.Now()))
}

func SendApplicationInfo(conn *context.SignalingConn, apduID uint8, apdu []byte) error {
	logger.MmLog.Debugf("-> APPLICATION INFO id=0x%02x len=%d", apduID, len(apdu))
	return sendDownlink(conn, BuildApplicationInfo(apduID, apdu))
}
