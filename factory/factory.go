// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

/*
 * MSC Configuration Factory
 */

package factory

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v2"

	"msc/logger"
)

var MscConfig Config

func InitConfigFactory(f string) error {
	content, err := os.ReadFile(f)
	if err != nil {
		return err
	}
	MscConfig = Config{}

	if yamlErr := yaml.Unmarshal(content, &MscConfig); yamlErr != nil {
		return yamlErr
	}

	return nil
}

func UpdateMscConfig(f string) error {
	content, err := os.ReadFile(f)
	if err != nil {
		return err
	}
	var mscConfig Config

	if yamlErr := yaml.Unmarshal(content, &mscConfig); yamlErr != nil {
		return yamlErr
	}
	// checking which config has been changed
	if !reflect.DeepEqual(MscConfig.Configuration.MscName, mscConfig.Configuration.MscName) {
		logger.CfgLog.Infoln("updated MSC name is changed to", mscConfig.Configuration.MscName)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.AuthPolicy, mscConfig.Configuration.AuthPolicy) {
		logger.CfgLog.Infoln("updated auth policy", mscConfig.Configuration.AuthPolicy)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.AuthorizedRegexp, mscConfig.Configuration.AuthorizedRegexp) {
		logger.CfgLog.Infoln("updated authorized regexp", mscConfig.Configuration.AuthorizedRegexp)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.NetworkName, mscConfig.Configuration.NetworkName) {
		logger.CfgLog.Infoln("updated network name", mscConfig.Configuration.NetworkName)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.Timezone, mscConfig.Configuration.Timezone) {
		logger.CfgLog.Infoln("updated timezone", mscConfig.Configuration.Timezone)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.Encryption, mscConfig.Configuration.Encryption) {
		logger.CfgLog.Infoln("updated encryption", mscConfig.Configuration.Encryption)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.AvoidTmsi, mscConfig.Configuration.AvoidTmsi) {
		logger.CfgLog.Infoln("updated avoidTmsi", mscConfig.Configuration.AvoidTmsi)
	}
	if !reflect.DeepEqual(MscConfig.Configuration.SendMmInfo, mscConfig.Configuration.SendMmInfo) {
		logger.CfgLog.Infoln("updated sendMmInfo", mscConfig.Configuration.SendMmInfo)
	}

	MscConfig = mscConfig
	return nil
}

func CheckConfigVersion() error {
	currentVersion := MscConfig.GetVersion()

	if currentVersion != MSC_EXPECTED_CONFIG_VERSION {
		return fmt.Errorf("config version is [%s], but expected is [%s]",
			currentVersion, MSC_EXPECTED_CONFIG_VERSION)
	}

	logger.CfgLog.Infof("config version [%s]", currentVersion)

	return nil
}
