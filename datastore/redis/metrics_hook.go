/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	goredis "github.com/redis/go-redis/v9"
)

var (
	// CommandsTotal counts Redis commands by name and status
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rediskv_commands_total",
			Help: "Total Redis commands by command and status",
		},
		[]string{"command", "status"},
	)

	// CommandDuration tracks Redis command latency in seconds
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rediskv_command_duration_seconds",
			Help:    "Redis command duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"command"},
	)

	// DialErrors counts failed connection attempts
	DialErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rediskv_dial_errors_total",
			Help: "Total failed Redis connection attempts",
		},
	)
)

// MetricsHook implements goredis.Hook to collect metrics on every command.
// A nil reply (redis.Nil) counts as success.
type MetricsHook struct{}

var _ goredis.Hook = (*MetricsHook)(nil)

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			DialErrors.Inc()
		}
		return conn, err
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		observe(cmd.Name(), start, err)
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		observe("pipeline", start, err)
		return err
	}
}

func observe(command string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, goredis.Nil) {
		status = "error"
	}
	CommandsTotal.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
}
