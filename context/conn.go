// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import (
	"time"

	"github.com/google/uuid"

	"msc/logger"
)

const anchorGrace = 5 * time.Second

// SignalingConn is one dedicated signaling channel towards a device. A
// fresh connection is held alive by an anchor guard for a short grace
// period; whichever procedure claims the connection first releases the
// anchor and takes over with its own reference.
type SignalingConn struct {
	ID         string
	Net        *MSC
	Subscriber *Subscriber
	Link       Downlink

	Ciphered bool
	Loc      *LocUpdOperation
	Sec      *SecurityOperation

	useCount int
	anchor   *Timer
	closed   bool
}

// NewConn registers a connection and starts the anchor guard. Callers hold
// the network lock.
func (net *MSC) NewConn(link Downlink) *SignalingConn {
	conn := &SignalingConn{
		ID:   uuid.New().String(),
		Net:  net,
		Link: link,
	}
	conn.useCount = 1
	conn.anchor = NewSingleTimer(anchorGrace, func() {
		net.Lock()
		defer net.Unlock()
		logger.ContextLog.Debugf("conn %s: anchor expired", conn.ID)
		conn.ReleaseAnchor()
	})
	net.Connections.Store(conn.ID, conn)
	return conn
}

// ReleaseAnchor drops the anchor guard. Safe to call repeatedly.
func (conn *SignalingConn) ReleaseAnchor() {
	if conn.anchor == nil {
		return
	}
	conn.anchor.Stop()
	conn.anchor = nil
	conn.Put()
}

func (conn *SignalingConn) Use() {
	conn.useCount++
}

// Put drops one reference and tears the connection down when none remain.
func (conn *SignalingConn) Put() {
	conn.useCount--
	if conn.useCount > 0 {
		return
	}
	conn.release()
}

func (conn *SignalingConn) release() {
	if conn.closed {
		return
	}
	conn.closed = true
	if conn.anchor != nil {
		conn.anchor.Stop()
		conn.anchor = nil
	}
	conn.Net.Connections.Delete(conn.ID)
	if conn.Link != nil {
		conn.Link.Release()
	}
	logger.ContextLog.Debugf("conn %s released (subscr %s)", conn.ID, conn.Subscriber.Label())
	conn.Subscriber = nil
}

func (conn *SignalingConn) Closed() bool {
	return conn.closed
}

func (conn *SignalingConn) Send(l3 []byte) error {
	if conn.Link == nil {
		return ErrConnClosed
	}
	return conn.Link.Send(l3)
}
