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

	"msc/context"
	"msc/logger"
)

type SubscriberInfo struct {
	IMSI      string `json:"imsi"`
	Extension string `json:"extension,omitempty"`
	Name      string `json:"name,omitempty"`
	TMSI      string `json:"tmsi,omitempty"`
	IMEI      string `json:"imei,omitempty"`
	Attached  bool   `json:"attached"`
	LAC       uint16 `json:"lac,omitempty"`
}

func setCorsHeader(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
}

func subscriberInfo(s *context.Subscriber) SubscriberInfo {
	info := SubscriberInfo{
		IMSI:      s.IMSI,
		Extension: s.Extension,
		Name:      s.Name,
		IMEI:      s.Equipment.IMEI,
		Attached:  s.Attached,
		LAC:       s.LAC,
	}
	if s.HasTMSI() {
		info.TMSI = fmt.Sprintf("0x%08x", s.TMSI)
	}
	return info
}

// HTTPSubscribers lists the registered subscribers, or one subscriber when
// the imsi parameter is present.
func HTTPSubscribers(c *gin.Context) {
	setCorsHeader(c)

	net := context.MSC_Self()
	if imsi, exists := c.Params.Get("imsi"); exists {
		s := net.Subscribers.ByIMSI(imsi)
		if s == nil {
			logger.GinLog.Warnln("no subscriber found for the provided imsi")
			c.JSON(http.StatusNotFound, nil)
			return
		}
		c.JSON(http.StatusOK, subscriberInfo(s))
		return
	}

	var out []SubscriberInfo
	for _, s := range net.Subscribers.All() {
		out = append(out, subscriberInfo(s))
	}
	c.JSON(http.StatusOK, out)
}
