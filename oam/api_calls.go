// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package oam

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"msc/cc"
	"msc/context"
)

type ActiveCallInfo struct {
	Callref       string `json:"callref"`
	TransactionID uint8  `json:"transactionId"`
	State         string `json:"state"`
	Subscriber    string `json:"subscriber,omitempty"`
	Paging        bool   `json:"paging,omitempty"`
}

// HTTPActiveCalls lists the live call transactions.
func HTTPActiveCalls(c *gin.Context) {
	setCorsHeader(c)

	net := context.MSC_Self()
	var out []ActiveCallInfo
	net.Transactions.Range(func(_, v interface{}) bool {
		trans := v.(*context.Transaction)
		out = append(out, ActiveCallInfo{
			Callref:       fmt.Sprintf("0x%08x", trans.Callref),
			TransactionID: trans.TransactionID,
			State:         cc.StateName(trans.CC.State),
			Subscriber:    trans.Subscriber.Label(),
			Paging:        trans.Conn == nil,
		})
		return true
	})
	c.JSON(http.StatusOK, out)
}
