// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"runtime/trace"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span represents an operation in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination Destination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Size        int
	Error       error
}

// Destination describes what a span talked to.
type Destination string

const (
	ToUser     Destination = "user"
	ToStore    Destination = "store"
	ToCatalogs Destination = "catalogs"
)

// ServerTimingName names the span's Server-Timing metric as
// destination$method$base64url(url).
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts timing. The returned context carries the trace task.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, string(span.Destination))
	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops timing. Only the first call has an effect.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Duration is the time between Begin and End.
func (span Span) Duration() time.Duration {
	return span.duration
}

func (span Span) Log() {
	event := log.Debug()

	event.Str("sys", "http")
	event.Str("method", span.Method)
	event.Str("url", span.URL)
	event.Int("status_code", span.StatusCode)
	event.Str("len", humanize.IBytes(uint64(max(span.Size, 0))))
	event.Dur("dur", span.duration)
	event.Str("destination", string(span.Destination))

	if span.RequestID != "" {
		event.Str("request_id", span.RequestID)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}
