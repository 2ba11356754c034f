// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package logger

import (
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

var log *logrus.Logger
var AppLog *logrus.Entry
var InitLog *logrus.Entry
var CfgLog *logrus.Entry
var ContextLog *logrus.Entry
var DispatchLog *logrus.Entry
var MmLog *logrus.Entry
var CcLog *logrus.Entry
var TransLog *logrus.Entry
var MnccLog *logrus.Entry
var PagingLog *logrus.Entry
var UtilLog *logrus.Entry
var GinLog *logrus.Entry

func init() {
	log = logrus.New()
	log.SetReportCaller(false)

	log.Formatter = &formatter.Formatter{
		TimestampFormat: time.RFC3339,
		TrimMessages:    true,
		NoFieldsSpace:   true,
		HideKeys:        true,
		FieldsOrder:     []string{"component", "category"},
	}

	AppLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "App"})
	InitLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Init"})
	CfgLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "CFG"})
	ContextLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Context"})
	DispatchLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Dispatch"})
	MmLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "MM"})
	CcLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "CC"})
	TransLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Trans"})
	MnccLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "MNCC"})
	PagingLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Paging"})
	UtilLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "Util"})
	GinLog = log.WithFields(logrus.Fields{"component": "MSC", "category": "GIN"})
}

func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

func SetReportCaller(enable bool) {
	log.SetReportCaller(enable)
}
