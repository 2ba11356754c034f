// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

import (
	"errors"
	"math"
	"regexp"
	"sync"

	"github.com/omec-project/util/idgenerator"

	"msc/logger"
	"msc/mncc"
)

var (
	ErrNoFreeTransactionID = errors.New("no free transaction identifier")
	ErrSecurityBusy        = errors.New("security operation already pending")
	ErrLocUpdBusy          = errors.New("location updating already pending")
	ErrAlreadyPaging       = errors.New("subscriber is already being paged")
	ErrConnClosed          = errors.New("signaling connection is closed")
)

// AuthPolicy decides who may register with the network.
type AuthPolicy int

const (
	AuthPolicyClosed AuthPolicy = iota
	AuthPolicyAcceptAll
	AuthPolicyRegexp
	AuthPolicyToken
)

var mscContext = MSC{}

func init() {
	mscContext.TMSI = idgenerator.NewGenerator(1, math.MaxInt32)
	mscContext.nextCallref = 0x80000001
	mscContext.Subscribers = NewMemDirectory()
}

// MSC is the network-side Layer 3 context. External entry points serialize
// on its mutex; handlers run to completion without blocking.
type MSC struct {
	sync.Mutex

	Name string
	MCC  string
	MNC  string
	LAC  uint16

	Policy           AuthPolicy
	AuthorizedRegexp *regexp.Regexp
	AutoCreate       bool
	RejectCause      uint8
	Encryption       uint8
	AvoidTMSI        bool
	SendMMInfo       bool
	NetworkNameLong  string
	NetworkNameShort string
	TimezoneOverride bool
	TimezoneHours    int
	TimezoneMinutes  int

	Subscribers SubscriberDirectory
	AuthTuples  AuthProvider
	Pager       Pager
	Media       MediaController

	// Backend receives uplink call events.
	Backend func(ev *mncc.Event)

	Connections  sync.Map // conn id -> *SignalingConn
	Transactions sync.Map // callref -> *Transaction

	TMSI          *idgenerator.IDGenerator
	nextCallref   uint32
	pagingWaiters map[*Subscriber][]PagingCallback
}

func MSC_Self() *MSC {
	return &mscContext
}

// NextCallref hands out backend correlation ids for network-created
// transactions. Callers hold the network lock.
func (net *MSC) NextCallref() uint32 {
	if net.nextCallref == 0 {
		net.nextCallref = 0x80000001
	}
	ref := net.nextCallref
	net.nextCallref++
	return ref
}

// TmsiAllocate gives the subscriber a fresh TMSI, freeing any old one.
func (net *MSC) TmsiAllocate(s *Subscriber) uint32 {
	if s.HasTMSI() {
		net.TMSI.FreeID(int64(s.TMSI))
	}
	id, err := net.TMSI.Allocate()
	if err != nil {
		logger.ContextLog.Errorf("tmsi allocation failed: %v", err)
		s.TMSI = TmsiInvalid
		return TmsiInvalid
	}
	s.TMSI = uint32(id)
	return s.TMSI
}

// DeliverToBackend pushes an uplink event to the call-routing backend.
func (net *MSC) DeliverToBackend(ev *mncc.Event) {
	if net.Backend == nil {
		logger.MnccLog.Warnf("no backend wired, dropping %s (callref 0x%x)", ev.Type, ev.Callref)
		return
	}
	net.Backend(ev)
}
