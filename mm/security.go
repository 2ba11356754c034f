// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package mm

import (
	"bytes"

	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/mm/message"
)

// classmark2SupportsA5 checks the equipment's ciphering support bits. A5/1
// is advertised inverted: a clear bit means available.
func classmark2SupportsA5(cm2 []byte, algo uint8) bool {
	switch algo {
	case 0:
		return true
	case 1:
		return len(cm2) >= 1 && cm2[0]&0x08 == 0
	case 2:
		return len(cm2) >= 3 && cm2[2]&0x01 != 0
	case 3:
		return len(cm2) >= 3 && cm2[2]&0x02 != 0
	default:
		return false
	}
}

func releaseSecurityOperation(conn *context.SignalingConn) {
	if conn.Sec == nil {
		return
	}
	conn.Sec = nil
	conn.Put()
}

// SecureChannel authenticates and/or ciphers the connection, then reports
// through cb. When nothing needs doing the callback fires immediately. A
// second call while an operation is pending fails; requests are never
// queued.
func SecureChannel(conn *context.SignalingConn, keySeq uint8, cb context.SecurityCallback) error {
	net := conn.Net

	decided := false
	var status context.SecurityStatus
	if net.Encryption == 0 {
		status, decided = context.SecurityNotAvailable, true
	} else if conn.Ciphered {
		logger.MmLog.Debugf("requested to secure an already secure channel")
		status, decided = context.SecurityAlreadySecure, true
	} else if !classmark2SupportsA5(conn.Subscriber.Equipment.Classmark2, net.Encryption) {
		logger.MmLog.Debugf("equipment does not support A5/%d", net.Encryption)
		status, decided = context.SecurityNotAvailable, true
	}

	var action context.AuthAction
	var tuple *context.AuthTuple
	if !decided {
		action, tuple = net.AuthTuples.TupleFor(conn.Subscriber, int(keySeq))
		if action == context.AuthNotAvailable || tuple == nil {
			status, decided = context.SecurityNotAvailable, true
		}
	}

	if decided {
		if cb != nil {
			cb(status, conn)
		}
		return nil
	}

	if conn.Sec != nil {
		return context.ErrSecurityBusy
	}
	conn.Sec = &context.SecurityOperation{Tuple: *tuple, Cb: cb}
	conn.Use()

	switch action {
	case context.AuthDoAuthThenCiph, context.AuthDoAuth:
		return message.SendAuthenticationRequest(conn, &conn.Sec.Tuple)
	case context.AuthDoCiph:
		return conn.Link.StartCiphering(net.Encryption, conn.Sec.Tuple.Kc)
	}
	return nil
}

// CipheringComplete is invoked by the access transport once the cipher
// mode change has been confirmed by the device.
func CipheringComplete(conn *context.SignalingConn) {
	conn.Ciphered = true
	if conn.Sec == nil {
		return
	}
	if cb := conn.Sec.Cb; cb != nil {
		cb(context.SecuritySucceeded, conn)
	}
	releaseSecurityOperation(conn)
}

func authRejectAndRelease(conn *context.SignalingConn) {
	message.SendAuthenticationReject(conn)
	releaseSecurityOperation(conn)
}

// handleAuthResponse covers 04.08 9.2.3 for both the plain 4-byte SRES and
// the R99 layout with the extended response IE. The signed response is
// compared locally and never leaves this procedure.
func handleAuthResponse(conn *context.SignalingConn, raw []byte) error {
	if conn.Subscriber == nil {
		logger.MmLog.Errorln("AUTHENTICATION RESPONSE without subscriber")
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}

	const sresLen = 4
	body := raw[gsm48.HeaderLen:]
	if len(body) < sresLen {
		logger.MmLog.Errorf("subscriber %s: AUTHENTICATION RESPONSE too short: %d",
			conn.Subscriber.Label(), len(raw))
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}
	res := append([]byte(nil), body[:sresLen]...)

	if len(body) > sresLen {
		// R99 extended response
		ext := body[sresLen:]
		if len(ext) < 2 || ext[0] != gsm48.IEAuthResExt {
			logger.MmLog.Errorf("subscriber %s: bad extended auth response IE",
				conn.Subscriber.Label())
			authRejectAndRelease(conn)
			return gsm48.ErrBadIE
		}
		ieLen := int(ext[1])
		if ieLen > 12 || len(ext) < 2+ieLen {
			logger.MmLog.Errorf("subscriber %s: extended auth response IE length %d invalid",
				conn.Subscriber.Label(), ieLen)
			authRejectAndRelease(conn)
			return gsm48.ErrBadIE
		}
		res = append(res, ext[2:2+ieLen]...)
	}

	if len(res) != sresLen {
		logger.MmLog.Errorf("subscriber %s: UMTS authentication not supported",
			conn.Subscriber.Label())
	}

	if conn.Sec == nil {
		logger.MmLog.Debugln("no authentication/cipher operation in progress")
		return nil
	}

	if !bytes.Equal(conn.Sec.Tuple.SRES[:], res[:sresLen]) {
		logger.MmLog.Infof("subscriber %s: invalid signed response",
			conn.Subscriber.Label())
		cb := conn.Sec.Cb
		if cb != nil {
			cb(context.SecurityAuthFailed, conn)
		}
		authRejectAndRelease(conn)
		return nil
	}

	logger.MmLog.Debugf("subscriber %s: authentication OK", conn.Subscriber.Label())
	return conn.Link.StartCiphering(conn.Net.Encryption, conn.Sec.Tuple.Kc)
}

const rejectCauseSynchFailure uint8 = 21

// handleAuthFailure covers 04.08 9.2.3a. Only the synch-failure flavor
// carries payload: a single AUTS IE of exactly 14 bytes. Resynchronization
// is not supported, so a valid AUTS still ends in an authentication
// reject.
func handleAuthFailure(conn *context.SignalingConn, raw []byte) error {
	if conn.Sec == nil {
		logger.MmLog.Debugf("AUTHENTICATION FAILURE without pending operation")
		return nil
	}
	if conn.Subscriber == nil {
		logger.MmLog.Errorln("AUTHENTICATION FAILURE without subscriber")
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}
	body := raw[gsm48.HeaderLen:]
	if len(body) < 1 {
		logger.MmLog.Errorf("subscriber %s: AUTHENTICATION FAILURE too short",
			conn.Subscriber.Label())
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}

	cause := body[0]
	if cause != rejectCauseSynchFailure {
		logger.MmLog.Infof("subscriber %s: AUTHENTICATION FAILURE cause 0x%x",
			conn.Subscriber.Label(), cause)
		authRejectAndRelease(conn)
		return nil
	}

	if len(body) < 3 {
		logger.MmLog.Infof("subscriber %s: synch failure without AUTS IE",
			conn.Subscriber.Label())
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}
	autsTag, autsLen := body[1], int(body[2])
	if autsTag != gsm48.IEAuts || autsLen != 14 {
		logger.MmLog.Infof("subscriber %s: expected AUTS IE 0x%02x of 14 bytes, got 0x%02x of %d",
			conn.Subscriber.Label(), gsm48.IEAuts, autsTag, autsLen)
		authRejectAndRelease(conn)
		return gsm48.ErrBadIE
	}
	if len(body) < 3+autsLen {
		logger.MmLog.Infof("subscriber %s: synch failure message truncated",
			conn.Subscriber.Label())
		authRejectAndRelease(conn)
		return gsm48.ErrTooShort
	}

	logger.MmLog.Errorf("subscriber %s: authentication resynchronization not supported",
		conn.Subscriber.Label())
	authRejectAndRelease(conn)
	return nil
}
