// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

// Package dispatcher is the serialization boundary of the signaling core.
// Every external stimulus enters here: Layer 3 messages from the access
// side, events from the call-routing backend, paging outcomes and
// ciphering confirmations. Each entry point takes the network lock and
// runs the matching handler to completion.
package dispatcher

import (
	"errors"

	"msc/cc"
	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/mm"
	"msc/mncc"
)

var ErrNotSupported = errors.New("protocol discriminator not supported")

// NewConnection registers a fresh signaling channel. The connection stays
// alive under the anchor guard until a procedure claims it or the guard
// expires.
func NewConnection(net *context.MSC, link context.Downlink) *context.SignalingConn {
	net.Lock()
	defer net.Unlock()
	return net.NewConn(link)
}

// Receive routes one inbound Layer 3 message by protocol discriminator.
// Call control and the unsupported upper-layer services drop the anchor
// guard; mobility management keeps it until the procedure decides.
func Receive(conn *context.SignalingConn, raw []byte) error {
	if len(raw) < gsm48.HeaderLen {
		return gsm48.ErrTooShort
	}
	pdisc := gsm48.HdrPDisc(raw)

	net := conn.Net
	net.Lock()
	defer net.Unlock()

	if conn.Closed() {
		return context.ErrConnClosed
	}

	logger.DispatchLog.Debugf("dispatching message, pdisc=%d", pdisc)

	switch pdisc {
	case gsm48.PDiscCC:
		// let the call claim the connection before the anchor goes
		err := cc.Receive(conn, raw)
		conn.ReleaseAnchor()
		return err
	case gsm48.PDiscMM:
		return mm.Receive(conn, raw)
	case gsm48.PDiscRR:
		return mm.ReceiveRR(conn, raw)
	case gsm48.PDiscSMS:
		conn.ReleaseAnchor()
		logger.DispatchLog.Warnf("short message service not supported")
		return ErrNotSupported
	case gsm48.PDiscNCSS:
		conn.ReleaseAnchor()
		logger.DispatchLog.Warnf("non-call-related signaling not supported")
		return ErrNotSupported
	case gsm48.PDiscMMGPRS, gsm48.PDiscSMGPRS:
		logger.DispatchLog.Warnf("unimplemented discriminator 0x%02x", pdisc)
		return ErrNotSupported
	case gsm48.PDiscTest:
		logger.DispatchLog.Warnf("test procedures not supported")
		return ErrNotSupported
	default:
		logger.DispatchLog.Warnf("unknown discriminator 0x%02x", pdisc)
		return gsm48.ErrBadIE
	}
}

// FromBackend routes one event from the call-routing backend into the
// call-control machine.
func FromBackend(net *context.MSC, ev *mncc.Event) error {
	net.Lock()
	defer net.Unlock()
	return cc.FromBackend(net, ev)
}

// CipheringComplete reports that the access side turned ciphering on.
func CipheringComplete(conn *context.SignalingConn) {
	net := conn.Net
	net.Lock()
	defer net.Unlock()
	if conn.Closed() {
		return
	}
	mm.CipheringComplete(conn)
}

// PagingFailed reports that a page went unanswered or the subscriber was
// busy. A successful page arrives as a Paging Response through Receive.
func PagingFailed(net *context.MSC, subscr *context.Subscriber, result context.PagingResult) {
	net.Lock()
	defer net.Unlock()
	net.PagingFailed(subscr, result)
}

// CloseConnection tears one signaling channel down: pending mobility
// operations are cancelled, every call transaction on the channel is
// released towards the backend, and the anchor guard is dropped.
func CloseConnection(conn *context.SignalingConn) {
	net := conn.Net
	net.Lock()
	defer net.Unlock()

	if conn.Closed() {
		return
	}
	logger.DispatchLog.Infof("closing connection %s", conn.ID)

	mm.CancelOperations(conn)
	for _, trans := range net.TransForConn(conn) {
		cc.ReleaseTransaction(trans)
	}
	conn.ReleaseAnchor()
}
