//go:build small

// Copyright 2026 The ESGF MetaGrid Probe Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shared

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLogger_fallsBackToNilLogger(t *testing.T) {
	assert.Equal(t, NewNilLogger(), GetLogger(context.Background()))
}

func TestWithLogger(t *testing.T) {
	entry := NewLogrusLogger("debug", true)
	ctx := WithLogger(context.Background(), entry)
	assert.Equal(t, entry, GetLogger(ctx))
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}

func TestNewLogrusLogger_unknownLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, NewLogrusLogger("chatty", false).Logger.GetLevel())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	entry := NewLogrusLogger("info", true)
	entry.Logger.SetOutput(&buf)

	WithFields(entry, logrus.Fields{"run_id": "abc"}).Infof("hello %s", "world")
	assert.Contains(t, buf.String(), `"run_id":"abc"`)
	assert.Contains(t, buf.String(), `"msg":"hello world"`)

	// Non-logrus loggers pass through untouched.
	assert.Equal(t, NewNilLogger(), WithFields(NewNilLogger(), logrus.Fields{"a": 1}))
}
