// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package cc

import (
	"sync"
	"time"

	"msc/context"
	"msc/gsm48"
	"msc/logger"
	"msc/mncc"
)

var (
	timeoutMu sync.RWMutex
	timeouts  = map[int]time.Duration{
		0x301: 180 * time.Second,
		0x303: 30 * time.Second,
		0x306: 30 * time.Second,
		0x308: 10 * time.Second,
		0x310: 180 * time.Second,
		0x313: 30 * time.Second,
		0x323: 30 * time.Second,
	}
)

// SetTimeout overrides one call-control timer, typically from the loaded
// configuration.
func SetTimeout(t int, d time.Duration) {
	timeoutMu.Lock()
	defer timeoutMu.Unlock()
	timeouts[t] = d
}

func timeoutFor(t int) time.Duration {
	timeoutMu.RLock()
	defer timeoutMu.RUnlock()
	if d, ok := timeouts[t]; ok {
		return d
	}
	return 30 * time.Second
}

func startTimer(trans *context.Transaction, current int) {
	d := timeoutFor(current)
	logger.CcLog.Debugf("callref 0x%x: starting timer T%x with %v", trans.Callref, current, d)
	trans.CC.TimerGen++
	gen := trans.CC.TimerGen
	if trans.CC.Timer != nil {
		trans.CC.Timer.Stop()
	}
	trans.CC.Tcurrent = current
	net := trans.Net
	trans.CC.Timer = context.NewSingleTimer(d, func() {
		net.Lock()
		defer net.Unlock()
		if trans.CC.TimerGen != gen {
			return
		}
		handleTimeout(trans)
	})
}

func stopTimer(trans *context.Transaction) {
	trans.CC.TimerGen++
	if trans.CC.Timer != nil {
		logger.CcLog.Debugf("callref 0x%x: stopping pending timer T%x",
			trans.Callref, trans.CC.Tcurrent)
		trans.CC.Timer.Stop()
		trans.CC.Timer = nil
		trans.CC.Tcurrent = 0
	}
}

func handleTimeout(trans *context.Transaction) {
	disconnect, release := false, false
	moCause := gsm48.CCCauseRecoveryTimer
	moLocation := gsm48.CauseLocUser
	l4Cause := gsm48.CCCauseNormalUnspec
	l4Location := gsm48.CauseLocPrivateLocal

	logger.CcLog.Infof("callref 0x%x: timer T%x expired in state %s",
		trans.Callref, trans.CC.Tcurrent, stateName(trans.CC.State))

	switch trans.CC.Tcurrent {
	case 0x303:
		release = true
		l4Cause = gsm48.CCCauseUserNotResponding
	case 0x310:
		disconnect = true
		l4Cause = gsm48.CCCauseUserNotResponding
	case 0x313:
		disconnect = true
	case 0x301:
		disconnect = true
		l4Cause = gsm48.CCCauseUserNotResponding
	case 0x308:
		if !trans.CC.T308Second {
			// repeat the release once before giving up
			txRelease(trans, &trans.CC.Msg)
			trans.CC.T308Second = true
			return
		}
		ReleaseTransaction(trans)
		return
	case 0x306:
		release = true
		moCause = trans.CC.Msg.Cause.Value
		moLocation = trans.CC.Msg.Cause.Location
	case 0x323:
		disconnect = true
	default:
		release = true
	}

	if release && trans.Callref != 0 {
		releaseInd(trans.Net, trans, trans.Callref, l4Location, l4Cause)
		trans.Callref = 0
	}

	if disconnect && trans.Callref != 0 {
		l4Rel := mncc.Event{Callref: trans.Callref}
		l4Rel.SetCause(l4Location, l4Cause)
		notifyBackend(trans.Net, trans, mncc.DiscInd, &l4Rel)
	}

	// tell the device which timer ran out
	moRel := mncc.Event{Callref: trans.Callref}
	moRel.Fields |= mncc.FCause
	moRel.Cause = gsm48.Cause{
		Coding:   3,
		Location: moLocation,
		Value:    moCause,
		Diag: []byte{
			byte((trans.CC.Tcurrent&0xf00)>>8) + '0',
			byte((trans.CC.Tcurrent&0x0f0)>>4) + '0',
			byte(trans.CC.Tcurrent&0x00f) + '0',
		},
	}

	if disconnect {
		txDisconnect(trans, &moRel)
	}
	if release {
		txRelease(trans, &moRel)
	}
}
