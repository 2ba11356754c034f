// SPDX-FileCopyrightText: 2021 Open Networking Foundation <info@opennetworking.org>
// Copyright 2019 free5GC.org
//
// SPDX-License-Identifier: Apache-2.0
//

/*
 * MSC statistics exposed to prometheus
 *
 */

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"msc/logger"
)

// MscStats captures mobility and call level stats
type MscStats struct {
	locUpdateType   *prometheus.CounterVec
	locUpdateResult *prometheus.CounterVec
	cmService       *prometheus.CounterVec
	paging          *prometheus.CounterVec
	call            *prometheus.CounterVec
	activeCalls     prometheus.Gauge
}

var mscStats *MscStats

func initMscStats() *MscStats {
	return &MscStats{
		locUpdateType: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loc_update_type_total",
			Help: "location updating requests by type",
		}, []string{"type"}),

		locUpdateResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loc_update_result_total",
			Help: "location updating outcomes",
		}, []string{"result"}),

		cmService: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cm_service_total",
			Help: "CM service request outcomes",
		}, []string{"result"}),

		paging: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paging_total",
			Help: "paging attempts and responses",
		}, []string{"result"}),

		call: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "call_events_total",
			Help: "call establishment and teardown events",
		}, []string{"event"}),

		activeCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "active_calls",
			Help: "calls currently in the active state",
		}),
	}
}

func (ms *MscStats) register() error {
	prometheus.Unregister(ms.locUpdateType)

	if err := prometheus.Register(ms.locUpdateType); err != nil {
		return err
	}
	if err := prometheus.Register(ms.locUpdateResult); err != nil {
		return err
	}
	if err := prometheus.Register(ms.cmService); err != nil {
		return err
	}
	if err := prometheus.Register(ms.paging); err != nil {
		return err
	}
	if err := prometheus.Register(ms.call); err != nil {
		return err
	}
	if err := prometheus.Register(ms.activeCalls); err != nil {
		return err
	}
	return nil
}

func init() {
	mscStats = initMscStats()

	if err := mscStats.register(); err != nil {
		logger.AppLog.Errorln("MSC stats register failed", err)
	}
}

// InitMetrics serves the stats endpoint
func InitMetrics(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.InitLog.Errorf("could not open metrics port: %v", err)
	}
}

func IncrLocUpdateType(t string) {
	mscStats.locUpdateType.WithLabelValues(t).Inc()
}

func IncrLocUpdateResult(result string) {
	mscStats.locUpdateResult.WithLabelValues(result).Inc()
}

func IncrCMService(result string) {
	mscStats.cmService.WithLabelValues(result).Inc()
}

func IncrPaging(result string) {
	mscStats.paging.WithLabelValues(result).Inc()
}

func IncrCallEvent(event string) {
	mscStats.call.WithLabelValues(event).Inc()
}

func SetActiveCalls(n int) {
	mscStats.activeCalls.Set(float64(n))
}

func IncrActiveCalls() {
	mscStats.activeCalls.Inc()
}

func DecrActiveCalls() {
	mscStats.activeCalls.Dec()
}
