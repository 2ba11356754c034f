// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package cc

import (
	"msc/context"
	"msc/logger"
	"msc/metrics"
)

// Call states, 04.08 figure 5.1 numbering.
const (
	StateNull           = 0
	StateInitiated      = 1
	StateMoCallProc     = 3
	StateCallDelivered  = 4
	StateCallPresent    = 6
	StateCallReceived   = 7
	StateConnectRequest = 8
	StateMtCallConf     = 9
	StateActive         = 10
	StateDisconnectReq  = 11
	StateDisconnectInd  = 12
	StateReleaseReq     = 19
	StateMoOrigModify   = 26
	StateMoTermModify   = 27
	StateConnectInd     = 28
)

var stateNames = map[int]string{
	StateNull:           "NULL",
	StateInitiated:      "INITIATED",
	StateMoCallProc:     "MO_CALL_PROC",
	StateCallDelivered:  "CALL_DELIVERED",
	StateCallPresent:    "CALL_PRESENT",
	StateCallReceived:   "CALL_RECEIVED",
	StateConnectRequest: "CONNECT_REQUEST",
	StateMtCallConf:     "MT_CALL_CONF",
	StateActive:         "ACTIVE",
	StateDisconnectReq:  "DISCONNECT_REQ",
	StateDisconnectInd:  "DISCONNECT_IND",
	StateReleaseReq:     "RELEASE_REQ",
	StateMoOrigModify:   "MO_ORIG_MODIFY",
	StateMoTermModify:   "MO_TERM_MODIFY",
	StateConnectInd:     "CONNECT_IND",
}

func stateName(s int) string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

// StateName exposes the call-state label for monitoring surfaces.
func StateName(s int) string { return stateName(s) }

func sbit(s int) uint32 { return 1 << uint(s) }

const allStates uint32 = 0xffffffff

func countStatistics(trans *context.Transaction, newState int) {
	oldState := trans.CC.State
	if oldState == newState {
		return
	}

	if newState == StateActive {
		metrics.IncrActiveCalls()
		metrics.IncrCallEvent("active")
	}

	if oldState == StateActive {
		metrics.DecrActiveCalls()
		if newState == StateDisconnectReq || newState == StateDisconnectInd {
			metrics.IncrCallEvent("complete")
		} else {
			metrics.IncrCallEvent("incomplete")
		}
	}
}

func newState(trans *context.Transaction, state int) {
	logger.CcLog.Debugf("callref 0x%x: new state %s -> %s",
		trans.Callref, stateName(trans.CC.State), stateName(state))

	countStatistics(trans, state)
	trans.CC.State = state
}
