/*
 * metrics.go, part of oxima.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * oxima is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package web

import (
	"github.com/prometheus/client_golang/prometheus"
)

//metrics are per-server, on their own registry, so tests can run many
//servers in one process.
type metrics struct {
	registry *prometheus.Registry
	duration prometheus.Histogram
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}
	m.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "oxima",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall-clock duration of full pipeline runs.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oxima",
		Name:      "pipeline_failures_total",
		Help:      "Failed pipeline runs by reason tag.",
	}, []string{"reason"})
	m.registry.MustRegister(m.duration, m.failures)
	return m
}
