// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

// AuthAction tells the security layer what to do for a subscriber once the
// register has been consulted for an authentication tuple.
type AuthAction int

const (
	AuthNotAvailable AuthAction = iota
	AuthDoAuthThenCiph
	AuthDoCiph
	AuthDoAuth
)

// AuthTuple is one RAND/SRES/Kc triplet. Challenges are generated from the
// tuple only; no other source may influence the RAND sent to the device.
type AuthTuple struct {
	KeySeq int
	RAND   [16]byte
	SRES   [4]byte
	Kc     [8]byte
}

// AuthProvider hands out authentication tuples. keySeq is the sequence
// number the device reported, so the provider may reuse a cached tuple.
type AuthProvider interface {
	TupleFor(s *Subscriber, keySeq int) (AuthAction, *AuthTuple)
}

type PagingResult int

const (
	PagingSucceeded PagingResult = iota
	PagingExpired
	PagingBusy
)

// PagingCallback runs when a paging attempt concludes. conn is non-nil only
// on success.
type PagingCallback func(result PagingResult, conn *SignalingConn)

// Pager is the access-side collaborator that broadcasts the page. The
// outcome comes back through MSC.PagingSucceeded / MSC.PagingFailed.
type Pager interface {
	PageSubscriber(s *Subscriber) error
}

// RTPInfo describes one RTP endpoint on the media plane.
type RTPInfo struct {
	IP          uint32
	Port        uint16
	PayloadType uint8
}

// MediaController drives the traffic channel that backs a signaling
// connection.
type MediaController interface {
	RTPCreate(conn *SignalingConn) (*RTPInfo, error)
	RTPConnect(conn *SignalingConn, peer *RTPInfo) error
	Bridge(a, b *SignalingConn) error
	FrameRecv(conn *SignalingConn, enable bool) error
}

// Downlink is the access-side transport under one signaling connection.
type Downlink interface {
	Send(l3 []byte) error
	StartCiphering(alg uint8, kc [8]byte) error
	Release()
}
