// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package context

// SecurityStatus is reported to the callback a security operation was
// started with.
type SecurityStatus int

const (
	SecurityNotAvailable SecurityStatus = iota
	SecurityAlreadySecure
	SecuritySucceeded
	SecurityAuthFailed
)

type SecurityCallback func(status SecurityStatus, conn *SignalingConn)

// SecurityOperation tracks one in-flight authentication/ciphering run on a
// connection. At most one exists per connection.
type SecurityOperation struct {
	Tuple AuthTuple
	Cb    SecurityCallback
}

// LocUpdOperation tracks one in-flight Location Updating procedure. At most
// one exists per connection.
type LocUpdOperation struct {
	Type           uint8
	KeySeq         uint8
	WaitingForIMSI bool
	WaitingForIMEI bool

	RejectTimer *Timer
}
