// SPDX-FileCopyrightText: 2022-present Intel Corporation
// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package service

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // Using package only for invoking initialization.
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/urfave/cli"

	"msc/cc"
	"msc/context"
	"msc/factory"
	"msc/gsm48"
	"msc/logger"
	"msc/metrics"
	"msc/oam"
)

type MSC struct{}

type (
	// Config information.
	Config struct {
		msccfg string
	}
)

var config Config

var mscCLi = []cli.Flag{
	cli.StringFlag{
		Name:  "msccfg",
		Usage: "msc config file",
	},
}

var initLog *logrus.Entry

func init() {
	initLog = logger.InitLog
}

func (*MSC) GetCliCmd() (flags []cli.Flag) {
	return mscCLi
}

func (msc *MSC) Initialize(c *cli.Context) error {
	config = Config{
		msccfg: c.String("msccfg"),
	}

	if config.msccfg == "" {
		config.msccfg = "./config/msccfg.yaml"
	}

	if err := factory.InitConfigFactory(config.msccfg); err != nil {
		return err
	}

	msc.setLogLevel()

	if err := factory.CheckConfigVersion(); err != nil {
		return err
	}

	viper.SetConfigFile(config.msccfg)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file failed: %w", err)
	}

	return nil
}

func (msc *MSC) WatchConfig() {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		initLog.Infoln("config file changed:", e.Name)
		if err := factory.UpdateMscConfig(config.msccfg); err != nil {
			initLog.Errorf("config update failed: %v", err)
			return
		}
		self := context.MSC_Self()
		self.Lock()
		applyConfig(self)
		self.Unlock()
	})
}

func (msc *MSC) setLogLevel() {
	if factory.MscConfig.Logger == nil {
		initLog.Warnln("MSC config without log level setting")
		return
	}
	if factory.MscConfig.Logger.DebugLevel != "" {
		if level, err := logrus.ParseLevel(factory.MscConfig.Logger.DebugLevel); err != nil {
			initLog.Warnf("MSC log level [%s] is invalid, set to [info] level",
				factory.MscConfig.Logger.DebugLevel)
			logger.SetLogLevel(logrus.InfoLevel)
		} else {
			initLog.Infof("MSC log level is set to [%s] level", level)
			logger.SetLogLevel(level)
		}
	} else {
		initLog.Infoln("MSC log level is default set to [info] level")
		logger.SetLogLevel(logrus.InfoLevel)
	}
	logger.SetReportCaller(factory.MscConfig.Logger.ReportCaller)
}

func (msc *MSC) FilterCli(c *cli.Context) (args []string) {
	for _, flag := range msc.GetCliCmd() {
		name := flag.GetName()
		value := fmt.Sprint(c.Generic(name))
		if value == "" {
			continue
		}

		args = append(args, "--"+name, value)
	}
	return args
}

// applyConfig maps the file configuration onto the running network
// context. Caller holds the context lock.
func applyConfig(self *context.MSC) {
	cfg := factory.MscConfig.Configuration

	self.Name = cfg.MscName
	self.MCC = cfg.Mcc
	self.MNC = cfg.Mnc
	self.LAC = cfg.Lac

	switch cfg.AuthPolicy {
	case "accept-all":
		self.Policy = context.AuthPolicyAcceptAll
	case "regexp":
		self.Policy = context.AuthPolicyRegexp
	case "token":
		self.Policy = context.AuthPolicyToken
	case "closed", "":
		self.Policy = context.AuthPolicyClosed
	default:
		initLog.Warnf("unknown auth policy [%s], falling back to closed", cfg.AuthPolicy)
		self.Policy = context.AuthPolicyClosed
	}

	self.AuthorizedRegexp = nil
	if cfg.AuthorizedRegexp != "" {
		re, err := regexp.Compile(cfg.AuthorizedRegexp)
		if err != nil {
			initLog.Errorf("authorized regexp does not compile: %v", err)
		} else {
			self.AuthorizedRegexp = re
		}
	}

	self.AutoCreate = cfg.AutoCreateSubscribers
	self.RejectCause = cfg.RejectCause
	if self.RejectCause == 0 {
		self.RejectCause = gsm48.RejectIMSIUnknownInHLR
	}
	self.Encryption = cfg.Encryption
	self.AvoidTMSI = cfg.AvoidTmsi
	self.SendMMInfo = cfg.SendMmInfo
	self.NetworkNameLong = cfg.NetworkName.Full
	self.NetworkNameShort = cfg.NetworkName.Short

	self.TimezoneOverride = cfg.Timezone != nil
	if cfg.Timezone != nil {
		self.TimezoneHours = cfg.Timezone.Hours
		self.TimezoneMinutes = cfg.Timezone.Minutes
	}

	for _, t := range []struct {
		id  int
		sec int
	}{
		{0x301, cfg.T301Value},
		{0x303, cfg.T303Value},
		{0x306, cfg.T306Value},
		{0x308, cfg.T308Value},
		{0x310, cfg.T310Value},
		{0x313, cfg.T313Value},
		{0x323, cfg.T323Value},
	} {
		if t.sec > 0 {
			cc.SetTimeout(t.id, time.Duration(t.sec)*time.Second)
		}
	}
}

func (msc *MSC) Start() {
	initLog.Infoln("server started")

	self := context.MSC_Self()

	self.Lock()
	applyConfig(self)
	self.Unlock()

	router := oam.NewRouter()

	go metrics.InitMetrics(fmt.Sprintf(":%d", factory.MscConfig.Configuration.MetricsPort))

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChannel
		msc.Terminate()
		os.Exit(0)
	}()

	oamAddr := fmt.Sprintf(":%d", factory.MscConfig.Configuration.OamPort)
	if err := http.ListenAndServe(oamAddr, router); err != nil {
		initLog.Fatalf("OAM server error: %v", err)
	}
}

func (msc *MSC) Exec(c *cli.Context) error {
	initLog.Debugln("args:", c.String("msccfg"))
	args := msc.FilterCli(c)
	initLog.Debugln("filter:", args)

	if err := msc.Initialize(c); err != nil {
		return err
	}

	msc.WatchConfig()
	go msc.Start()
	return nil
}

// Terminate releases every open signaling connection so transactions
// and operations are torn down before the process exits.
func (msc *MSC) Terminate() {
	initLog.Infoln("terminating MSC")
	self := context.MSC_Self()
	self.Lock()
	self.Connections.Range(func(key, value interface{}) bool {
		conn := value.(*context.SignalingConn)
		if !conn.Closed() {
			conn.Link.Release()
		}
		return true
	})
	self.Unlock()
	initLog.Infoln("MSC terminated")
}
