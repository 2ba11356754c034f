// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package mm

import (
	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/metrics"
)

// handlePagingResponse covers 04.08 9.1.25. Layout after the header: key
// sequence octet, classmark 2 LV, mobile identity LV. The responding
// subscriber is bound to the connection and any caller waiting on the page
// is woken up.
func handlePagingResponse(conn *context.SignalingConn, raw []byte) error {
	net := conn.Net
	body := raw[gsm48.HeaderLen:]
	if len(body) < 2 {
		return gsm48.ErrTooShort
	}
	cm2Len := int(body[1])
	if len(body) < 2+cm2Len+1 {
		return gsm48.ErrTooShort
	}
	classmark2 := body[2 : 2+cm2Len]
	miLen := int(body[2+cm2Len])
	if len(body) < 2+cm2Len+1+miLen {
		return gsm48.ErrTooShort
	}
	mi := body[2+cm2Len+1 : 2+cm2Len+1+miLen]

	miType, miString, err := gsm48.DecodeMobileIdentity(mi)
	if err != nil {
		return err
	}
	logger.MmLog.Debugf("PAGING RESPONSE: MI(%d)=%s", miType, miString)

	var subscr *context.Subscriber
	switch miType {
	case gsm48.MITypeTMSI:
		if tmsi, err := gsm48.DecodeTMSI(mi); err == nil {
			subscr = net.Subscribers.ByTMSI(tmsi)
		}
	case gsm48.MITypeIMSI:
		subscr = net.Subscribers.ByIMSI(miString)
	}

	if subscr == nil {
		logger.MmLog.Debugln("paging response from unknown subscriber")
		metrics.IncrPaging("unknown")
		return gsm48.ErrBadIE
	}

	if conn.Subscriber == nil {
		conn.Subscriber = subscr
	} else if conn.Subscriber != subscr {
		logger.MmLog.Errorln("connection already owned by someone else")
		return gsm48.ErrBadIE
	}

	subscr.Equipment.Classmark2 = append([]byte(nil), classmark2...)
	net.Subscribers.UpdateEquipment(subscr)

	metrics.IncrPaging("answered")
	conn.ReleaseAnchor()
	net.PagingSucceeded(subscr, conn)
	return nil
}

// handleAppInfo decodes the RR APPLICATION INFORMATION message and hands
// the APDU to the equipment store.
func handleAppInfo(conn *context.SignalingConn, raw []byte) error {
	body := raw[gsm48.HeaderLen:]
	if len(body) < 2 {
		return gsm48.ErrTooShort
	}
	apduID := body[0]
	apduLen := int(body[1])
	if len(body) < 2+apduLen {
		return gsm48.ErrTooShort
	}
	logger.MmLog.Debugf("APPLICATION INFO id/flags=0x%02x apdu_len=%d", apduID, apduLen)
	return nil
}

// ReceiveRR routes a Radio Resource message. Everything beyond paging
// responses and application info belongs to the access network, not here.
func ReceiveRR(conn *context.SignalingConn, raw []byte) error {
	switch gsm48.HdrMsgType(raw) {
	case gsm48.MTRRPagingResponse:
		return handlePagingResponse(conn, raw)
	case gsm48.MTRRAppInfo:
		return handleAppInfo(conn, raw)
	default:
		logger.MmLog.Infof("unimplemented RR message type 0x%02x", gsm48.HdrMsgType(raw))
		return nil
	}
}
