package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeUpload, "upload failed")

	if err.Code != CodeUpload {
		t.Errorf("expected code=%s, got %s", CodeUpload, err.Code)
	}
	if err.Message != "upload failed" {
		t.Errorf("expected message='upload failed', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNoWork, "no %s script", "thumbed")

	if err.Message != "no thumbed script" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeComposition, "ffmpeg exited"),
			contains: []string{"COMPOSITION_ERROR", "ffmpeg exited"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeUpload,
				Message: "put failed",
				Op:      "render.upload",
			},
			contains: []string{"render.upload", "UPLOAD_ERROR", "put failed"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	original := fmt.Errorf("connection reset")
	wrapped := Wrap(original, "render.fetch", "fetch failed")

	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "render.fetch" {
		t.Errorf("expected op='render.fetch', got %s", wrapped.Op)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
	if Wrap(nil, "op", "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrapPreservesCodeAndFields(t *testing.T) {
	original := NotFound("script", "42")
	wrapped := Wrap(original, "handler", "lookup failed")

	if wrapped.Code != CodeNotFound {
		t.Errorf("expected code to be preserved as %s, got %s", CodeNotFound, wrapped.Code)
	}
	if wrapped.Fields["id"] != "42" {
		t.Errorf("expected fields to be preserved, got %v", wrapped.Fields)
	}
}

func TestWrapWithCode(t *testing.T) {
	wrapped := WrapWithCode(fmt.Errorf("exit status 1"), CodeComposition, "render.compose", "ffmpeg failed")

	if wrapped.Code != CodeComposition {
		t.Errorf("expected code=%s, got %s", CodeComposition, wrapped.Code)
	}
	if WrapWithCode(nil, CodeComposition, "op", "msg") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, 400},
		{CodeNotFound, 404},
		{CodeNoWork, 404},
		{CodeConflict, 409},
		{CodeUnavailable, 503},
		{CodeInternal, 500},
		{CodeAssetFetch, 500},
		{CodeLocalWrite, 500},
		{CodeComposition, 500},
		{CodeUpload, 500},
		{CodePublish, 500},
		{CodeStatusUpdate, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "test").HTTPStatus(); got != tt.status {
				t.Errorf("expected status=%d, got %d", tt.status, got)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(New(CodeUpload, "x")) != CodeUpload {
		t.Error("expected code from *Error")
	}
	if GetCode(fmt.Errorf("standard")) != CodeInternal {
		t.Error("expected CodeInternal for standard errors")
	}
	if GetCode(fmt.Errorf("outer: %w", New(CodePublish, "x"))) != CodePublish {
		t.Error("expected code through fmt wrapping")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if GetHTTPStatus(New(CodeNoWork, "none")) != 404 {
		t.Error("expected 404 for no work")
	}
	if GetHTTPStatus(fmt.Errorf("standard")) != 500 {
		t.Error("expected 500 for standard error")
	}
}

func TestGetFields(t *testing.T) {
	if GetFields(Unavailable("redis"))["service"] != "redis" {
		t.Error("expected service field")
	}
	if GetFields(fmt.Errorf("standard")) != nil {
		t.Error("expected nil fields for standard error")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeNoWork, "none")
	if !IsCode(err, CodeNoWork) || IsCode(err, CodeUpload) {
		t.Error("IsCode mismatch")
	}
}

func TestStackTrace(t *testing.T) {
	stack := New(CodeInternal, "test error").StackTrace()
	if !strings.Contains(stack, ".go:") {
		t.Errorf("expected stack trace to contain file references, got: %s", stack)
	}
}

func TestErrorIs(t *testing.T) {
	if !errors.Is(New(CodeUpload, "a"), New(CodeUpload, "b")) {
		t.Error("expected errors with same code to match")
	}
	if errors.Is(New(CodeUpload, "a"), New(CodePublish, "b")) {
		t.Error("expected errors with different codes to not match")
	}
}

func TestAsAndIs(t *testing.T) {
	original := New(CodeNotFound, "not found")
	wrapped := fmt.Errorf("wrapped: %w", original)

	var target *Error
	if !As(wrapped, &target) {
		t.Fatal("expected As to find Error in chain")
	}
	if target.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, target.Code)
	}
	if !Is(wrapped, original) {
		t.Error("expected Is to match original error")
	}
}
