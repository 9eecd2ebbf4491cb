// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// InvalidParamsError reports request parameters that failed decoding or
// validation. Problems holds one human-readable message per violation.
type InvalidParamsError struct {
	Problems []string
}

func (e *InvalidParamsError) Error() string {
	return "Invalid parameters: " + strings.Join(e.Problems, ", ")
}

// NotFoundError reports that no entity exists under the requested key.
type NotFoundError struct {
	Entity string // "Company", "Category", ...
	Slug   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", strings.ToLower(e.Entity), e.Slug)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InternalError wraps any storage or rendering failure. The message names
// the operation; the cause is kept for logging through Unwrap.
type InternalError struct {
	Op  string // e.g. "fetch companies"
	Err error
}

func (e *InternalError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}
