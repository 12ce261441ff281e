// Blockwise - Learnable Record-Linkage Blocking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/blockwise

/*
Package validation validates configuration and request structs with
go-playground/validator v10.

A single validator instance is shared by the process. Besides the built-in
tags it understands:

	blocker_template   a template spec accepted by blockers.ParseTemplate
	blocker_kind       a registered blocker kind

Failures are returned as *RequestValidationError, whose messages are
readable without the struct definitions:

	type runsQuery struct {
	    Limit int `validate:"min=1,max=500"`
	}
	if err := validation.ValidateStruct(&q); err != nil {
	    apiErr := err.ToAPIError()
	    ...
	}
*/
package validation
