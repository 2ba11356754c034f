// SPDX-FileCopyrightText: 2024 Intel Corporation
// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"msc/logger"
	"msc/service"
)

var MSC = &service.MSC{}

func main() {
	app := cli.NewApp()
	app.Name = "msc"
	logger.AppLog.Infoln(app.Name)
	app.Usage = "GSM Mobile Switching Center signaling core"
	app.UsageText = "msc -msccfg <msc_config_file.yaml>"
	app.Action = action
	app.Flags = MSC.GetCliCmd()
	if err := app.Run(os.Args); err != nil {
		logger.AppLog.Fatalf("MSC run error: %v", err)
	}
}

func action(c *cli.Context) error {
	if err := MSC.Initialize(c); err != nil {
		logger.CfgLog.Errorf("%+v", err)
		return fmt.Errorf("failed to initialize")
	}

	MSC.WatchConfig()

	MSC.Start()

	return nil
}
