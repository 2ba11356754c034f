// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import (
	"msc/logger"
	"msc/mncc"
)

const TransactionIDUnassigned uint8 = 0xff

// Transaction is one Call-Control dialogue with a device. Conn is nil while
// paging for the subscriber is outstanding.
type Transaction struct {
	Net        *MSC
	Subscriber *Subscriber
	Conn       *SignalingConn

	Protocol      uint8
	TransactionID uint8
	Callref       uint32
	// registration key; Callref may be zeroed during clearing
	key uint32

	CC struct {
		State      int
		Tcurrent   int
		Timer      *Timer
		TimerGen   uint64
		T308Second bool
		Msg        mncc.Event
	}
}

// NewTransaction registers a transaction under its call reference. The
// transaction starts without a connection; see SetConn.
func (net *MSC) NewTransaction(subscr *Subscriber, protocol, tid uint8, callref uint32) *Transaction {
	trans := &Transaction{
		Net:           net,
		Subscriber:    subscr,
		Protocol:      protocol,
		TransactionID: tid,
		Callref:       callref,
		key:           callref,
	}
	net.Transactions.Store(callref, trans)
	logger.TransLog.Debugf("new transaction callref=0x%x tid=0x%x subscr=%s",
		callref, tid, subscr.Label())
	return trans
}

func (net *MSC) TransFindByCallref(callref uint32) *Transaction {
	if v, ok := net.Transactions.Load(callref); ok {
		return v.(*Transaction)
	}
	return nil
}

func (net *MSC) TransFindByID(conn *SignalingConn, protocol, tid uint8) *Transaction {
	var found *Transaction
	net.Transactions.Range(func(_, v interface{}) bool {
		trans := v.(*Transaction)
		if trans.Conn == conn && trans.Protocol == protocol && trans.TransactionID == tid {
			found = trans
			return false
		}
		return true
	})
	return found
}

// TransForConn lists the live transactions owned by a connection.
func (net *MSC) TransForConn(conn *SignalingConn) []*Transaction {
	var out []*Transaction
	net.Transactions.Range(func(_, v interface{}) bool {
		if trans := v.(*Transaction); trans.Conn == conn {
			out = append(out, trans)
		}
		return true
	})
	return out
}

// TransPagingFor reports whether a transaction is already waiting on paging
// for the subscriber.
func (net *MSC) TransPagingFor(subscr *Subscriber) bool {
	found := false
	net.Transactions.Range(func(_, v interface{}) bool {
		trans := v.(*Transaction)
		if trans.Subscriber == subscr && trans.Conn == nil {
			found = true
			return false
		}
		return true
	})
	return found
}

// AssignTransactionID picks the lowest free identifier for the subscriber
// and protocol. tiFlag is the direction bit of the protocol role.
func (net *MSC) AssignTransactionID(subscr *Subscriber, protocol uint8, tiFlag bool) (uint8, error) {
	var used uint16
	net.Transactions.Range(func(_, v interface{}) bool {
		trans := v.(*Transaction)
		if trans.Subscriber == subscr && trans.Protocol == protocol &&
			trans.TransactionID != TransactionIDUnassigned {
			used |= 1 << trans.TransactionID
		}
		return true
	})
	var flag uint8
	if tiFlag {
		flag = 0x8
	}
	for i := uint8(0); i < 7; i++ {
		tid := i | flag
		if used&(1<<tid) == 0 {
			return tid, nil
		}
	}
	return 0, ErrNoFreeTransactionID
}

// SetConn attaches the transaction to a connection, taking a reference.
func (trans *Transaction) SetConn(conn *SignalingConn) {
	if trans.Conn != nil {
		return
	}
	trans.Conn = conn
	conn.Use()
}

// Free unregisters the transaction. Any armed timer is torn down first so a
// late expiry cannot touch freed state.
func (trans *Transaction) Free() {
	trans.CC.TimerGen++
	if trans.CC.Timer != nil {
		trans.CC.Timer.Stop()
		trans.CC.Timer = nil
	}
	trans.CC.Tcurrent = 0
	trans.Net.Transactions.Delete(trans.key)
	if trans.Conn != nil {
		trans.Conn.Put()
		trans.Conn = nil
	}
	logger.TransLog.Debugf("transaction callref=0x%x freed", trans.key)
}
