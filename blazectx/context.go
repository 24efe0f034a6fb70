// Copyright 2024 The BlazeDB Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package blazectx carries the per-query values the core threads through
// every operator call: a structured logger pre-tagged with the query id,
// and a tracer span for the planning phase. There is no session, no
// transaction, no user — BlazeDB runs one query at a time to completion.
package blazectx

import (
	"context"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context is the value threaded through the planner and every operator's
// Next/Reset call.
type Context struct {
	context.Context

	// QueryID identifies this query's execution for log correlation.
	QueryID string

	// Tracer is used by the planner to open a single "plan" span around
	// planning. Defaults to a no-op tracer; BlazeDB has no tracing backend
	// of its own to report spans to.
	Tracer opentracing.Tracer

	log *logrus.Entry
}

// New creates a Context for one query execution, stamping a fresh query
// id onto the logger the way the teacher's sessions stamp a connection id
// onto every audit log line.
func New() *Context {
	id := uuid.New().String()
	return &Context{
		Context: context.Background(),
		QueryID: id,
		Tracer:  opentracing.NoopTracer{},
		log:     logrus.WithField("query_id", id),
	}
}

// Log returns the logger entry for this query, already tagged with the
// query id. Callers add their own fields (system, table, expression, ...)
// with WithFields before emitting.
func (c *Context) Log() *logrus.Entry {
	if c.log == nil {
		return logrus.WithField("query_id", c.QueryID)
	}
	return c.log
}

// StartSpan opens a span with the given operation name; the planner
// calls it once, as "plan".
func (c *Context) StartSpan(operation string) opentracing.Span {
	tracer := c.Tracer
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return tracer.StartSpan(operation)
}
