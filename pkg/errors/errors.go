// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Totem Contributors

// Package errors provides coded, structured errors for the totem core.
// Every error crossing a package boundary carries a machine-readable Code
// so callers can branch on failure class without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeRegistryRegisterInvalid Code = "registry.register.invalid_input"
	CodeRegistryNotFound        Code = "registry.lookup.not_found"

	CodePluginValidateInvalid Code = "plugin.validate.invalid"
	CodePluginManifestInvalid Code = "plugin.manifest.parse.invalid"
	CodePluginSourceFailure   Code = "plugin.source.acquire.failure"
	CodePluginHandlerNotFound Code = "plugin.handler.not_found"
	CodePluginCategoryInvalid Code = "plugin.category.invalid_value"

	CodeDetectInputInvalid Code = "detect.input.invalid_input"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeCLIInputInvalid Code = "cli.input.invalid"
	CodeCLISetupFailure Code = "cli.setup.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldPlugin(value string) Attr {
	return Field("plugin", value)
}

func FieldSource(value string) Attr {
	return Field("source", value)
}

func FieldRule(value string) Attr {
	return Field("rule", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

// Join combines errs into a single error carrying code.
func Join(code Code, errs ...error) error {
	return oops.Code(code).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
