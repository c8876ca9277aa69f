// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LogContext supplies the identifying fields attached to every log entry
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a minimal LogContext for code paths that have no richer one
type BasicLogContext struct {
	sessionID string
}

// AppName returns the service name
func (c *BasicLogContext) AppName() string {
	return "bf-scene-tiler"
}

// SessionID returns a Session ID, creating one if needed
func (c *BasicLogContext) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *BasicLogContext) LogRootDir() string {
	return ""
}

// Severity is an RFC 5424 style severity keyword for audit messages
type Severity string

// Audit severities
const (
	DEBUG  Severity = "debug"
	INFO   Severity = "info"
	NOTICE Severity = "notice"
	WARN   Severity = "warning"
	ERROR  Severity = "error"
	FATAL  Severity = "fatal"
)

func (s Severity) level() slog.Level {
	switch s {
	case DEBUG:
		return slog.LevelDebug
	case INFO, NOTICE:
		return slog.LevelInfo
	case WARN:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

var logger = newLogger(os.Getenv("LOG_LEVEL"))

func newLogger(levelName string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func logMessage(ctx LogContext, level slog.Level, message string, attrs ...slog.Attr) {
	all := append([]slog.Attr{
		slog.String("app", ctx.AppName()),
		slog.String("session", ctx.SessionID()),
	}, attrs...)
	logger.LogAttrs(context.Background(), level, message, all...)
}

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	logMessage(ctx, slog.LevelInfo, message)
}

// LogAlert logs a message that should get operator attention
func LogAlert(ctx LogContext, message string) {
	logMessage(ctx, slog.LevelWarn, message)
}

// LogSimpleErr logs message and err together, and returns an error carrying
// both for the caller to hand up the stack
func LogSimpleErr(ctx LogContext, message string, err error) error {
	if err == nil {
		logMessage(ctx, slog.LevelError, message)
		return errors.New(message)
	}
	logMessage(ctx, slog.LevelError, message, slog.String("error", err.Error()))
	return fmt.Errorf("%s%v", message, err)
}

// LogAuditInput is the actor/action/actee triple for audit logging
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

// LogAudit emits an audit log entry
func LogAudit(ctx LogContext, input LogAuditInput) {
	logMessage(ctx, input.Severity.level(), input.Message,
		slog.Bool("audit", true),
		slog.String("actor", input.Actor),
		slog.String("action", input.Action),
		slog.String("actee", input.Actee),
	)
}

// Error is an error carrying extra detail about a failed upstream exchange.
// LogMsg is written to the log; SimpleMsg is safe to show to API clients.
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Error implements the error interface, preferring the client-safe message
func (err Error) Error() string {
	if err.SimpleMsg != "" {
		return err.SimpleMsg
	}
	return err.LogMsg
}

// Log writes the error's full detail to the log and returns a client-safe error
func (err Error) Log(ctx LogContext, msgPrefix string) error {
	message := err.LogMsg
	if msgPrefix != "" {
		message = msgPrefix + ": " + message
	}
	attrs := []slog.Attr{}
	if err.URL != "" {
		attrs = append(attrs, slog.String("url", err.URL))
	}
	if err.HTTPStatus != 0 {
		attrs = append(attrs, slog.Int("status", err.HTTPStatus))
	}
	if err.Response != "" {
		attrs = append(attrs, slog.String("response", err.Response))
	}
	logMessage(ctx, slog.LevelError, message, attrs...)
	return errors.New(err.Error())
}
