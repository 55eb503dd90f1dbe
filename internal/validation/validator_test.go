// Dashboarr - Home Media Dashboard Aggregator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dashboarr

package validation

import (
	"strings"
	"testing"
)

type deleteRequest struct {
	Hash        string `validate:"required"`
	DeleteFiles bool
}

func TestValidateStructPasses(t *testing.T) {
	if err := ValidateStruct(&deleteRequest{Hash: "abc123"}); err != nil {
		t.Errorf("expected valid struct, got: %v", err)
	}
}

func TestValidateStructRequired(t *testing.T) {
	err := ValidateStruct(&deleteRequest{})
	if err == nil {
		t.Fatal("expected validation error for missing hash")
	}
	if !strings.Contains(err.Error(), "Hash is required") {
		t.Errorf("unexpected message: %v", err)
	}
	if len(err.Fields()) != 1 || err.Fields()[0].Tag != "required" {
		t.Errorf("unexpected field errors: %+v", err.Fields())
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	type rangeRequest struct {
		Limit  int `validate:"min=1"`
		Offset int `validate:"min=0,max=100"`
	}

	err := ValidateStruct(&rangeRequest{Limit: 0, Offset: 500})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Fields()) != 2 {
		t.Errorf("expected 2 field errors, got %d", len(err.Fields()))
	}
}
