// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

/*
 * MSC Configuration Factory
 */

package factory

const (
	MSC_EXPECTED_CONFIG_VERSION = "1.0.0"
)

type Config struct {
	Info          *Info          `yaml:"info"`
	Configuration *Configuration `yaml:"configuration"`
	Logger        *Logger        `yaml:"logger"`
}

type Info struct {
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type Configuration struct {
	MscName     string `yaml:"mscName,omitempty"`
	Mcc         string `yaml:"mcc,omitempty"`
	Mnc         string `yaml:"mnc,omitempty"`
	Lac         uint16 `yaml:"lac,omitempty"`
	OamPort     int    `yaml:"oamPort,omitempty"`
	MetricsPort int    `yaml:"metricsPort,omitempty"`

	AuthPolicy            string `yaml:"authPolicy,omitempty"` // closed, accept-all, regexp, token
	AuthorizedRegexp      string `yaml:"authorizedRegexp,omitempty"`
	AutoCreateSubscribers bool   `yaml:"autoCreateSubscribers,omitempty"`
	RejectCause           uint8  `yaml:"rejectCause,omitempty"`
	Encryption            uint8  `yaml:"encryption,omitempty"` // A5/n
	AvoidTmsi             bool   `yaml:"avoidTmsi,omitempty"`
	SendMmInfo            bool   `yaml:"sendMmInfo,omitempty"`

	NetworkName NetworkName `yaml:"networkName,omitempty"`
	Timezone    *Timezone   `yaml:"timezone,omitempty"`

	// call-control supervision timers, seconds; zero keeps the default
	T301Value int `yaml:"t301Value,omitempty"`
	T303Value int `yaml:"t303Value,omitempty"`
	T306Value int `yaml:"t306Value,omitempty"`
	T308Value int `yaml:"t308Value,omitempty"`
	T310Value int `yaml:"t310Value,omitempty"`
	T313Value int `yaml:"t313Value,omitempty"`
	T323Value int `yaml:"t323Value,omitempty"`
}

type NetworkName struct {
	Full  string `yaml:"full"`
	Short string `yaml:"short,omitempty"`
}

type Timezone struct {
	Hours   int `yaml:"hours"`
	Minutes int `yaml:"minutes,omitempty"`
}

type Logger struct {
	DebugLevel   string `yaml:"debugLevel,omitempty"`
	ReportCaller bool   `yaml:"reportCaller,omitempty"`
}

func (c *Config) GetVersion() string {
	if c.Info != nil && c.Info.Version != "" {
		return c.Info.Version
	}
	return ""
}
