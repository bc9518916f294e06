package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	writeJSONSuccess(&buf, map[string]string{"key": "val"}, "it worked")

	var env SuccessEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.OK {
		t.Error("ok = false, want true")
	}
	if env.Message != "it worked" {
		t.Errorf("message = %q, want %q", env.Message, "it worked")
	}
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data type = %T, want map", env.Data)
	}
	if data["key"] != "val" {
		t.Errorf("data.key = %v, want %q", data["key"], "val")
	}
}

func TestWriteJSONSuccessOmitsEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	writeJSONSuccess(&buf, "data", "")

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, exists := raw["message"]; exists {
		t.Error("expected message to be omitted when empty")
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	writeJSONError(&buf, errors.New("something broke"), ErrNotFound)

	var env ErrorEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK {
		t.Error("ok = true, want false")
	}
	if env.Error != "something broke" {
		t.Errorf("error = %q, want %q", env.Error, "something broke")
	}
	if env.Code != ErrNotFound {
		t.Errorf("code = %q, want %q", env.Code, ErrNotFound)
	}
}

func TestWriterErrorJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{JSONMode: true, Stdout: &stdout, Stderr: &stderr}

	code := w.Error(errors.New("fail"), ErrValidation)
	if code != ExitValidation {
		t.Errorf("exit code = %d, want %d", code, ExitValidation)
	}
	if stdout.Len() == 0 {
		t.Error("expected JSON error on stdout")
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.OK {
		t.Error("ok = true, want false")
	}
	if env.Code != ErrValidation {
		t.Errorf("code = %q, want %q", env.Code, ErrValidation)
	}
}

func TestWriterErrorHuman(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{JSONMode: false, Stdout: &stdout, Stderr: &stderr}

	code := w.Error(errors.New("fail"), ErrGeneral)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}
	if stderr.String() != "Error: fail\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "Error: fail\n")
	}
}

func TestWriterErrorHumanShowsFieldAndCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{Stdout: &stdout, Stderr: &stderr}

	code := w.Fail(&service.FieldError{Field: "password", Reason: "must not be entirely numeric"})
	if code != ExitValidation {
		t.Errorf("exit code = %d, want %d", code, ExitValidation)
	}
	want := "Error: password must not be entirely numeric\n" +
		"  field: password\n" +
		"  code:  VALIDATION_ERROR\n"
	if stderr.String() != want {
		t.Errorf("stderr = %q, want %q", stderr.String(), want)
	}
}

func TestWriterFailClassifiesServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("project %q: %w", "Nope", service.ErrNotFound), ExitNotFound},
		{service.ErrForbidden, ExitForbidden},
		{service.ErrAmbiguous, ExitGeneral},
	}
	for _, tt := range tests {
		var stdout bytes.Buffer
		w := &Writer{JSONMode: true, Stdout: &stdout}
		if got := w.Fail(tt.err); got != tt.want {
			t.Errorf("Fail(%v) = %d, want %d", tt.err, got, tt.want)
		}
		var env ErrorEnvelope
		if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if env.Code != CodeFor(tt.err) {
			t.Errorf("envelope code = %q, want %q", env.Code, CodeFor(tt.err))
		}
	}
}

func TestWriterSuccessHuman(t *testing.T) {
	var stdout bytes.Buffer
	w := &Writer{Stdout: &stdout}

	w.Success(nil, "Created user alice (id 1)")
	w.Success(nil, "")
	if stdout.String() != "Created user alice (id 1)\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestWriterWarn(t *testing.T) {
	var stderr bytes.Buffer
	w := &Writer{QuietMode: true, Stderr: &stderr}

	w.Warn("database already exists at %s", "/x")
	if stderr.String() != "Warning: database already exists at /x\n" {
		t.Errorf("stderr = %q", stderr.String())
	}

	stderr.Reset()
	w.JSONMode = true
	w.Warn("hidden")
	if stderr.Len() != 0 {
		t.Errorf("expected no warning in JSON mode, got %q", stderr.String())
	}
}

func TestWriterInfoSuppressedInJSONMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{JSONMode: true, Stdout: &stdout, Stderr: &stderr}

	w.Info("should not appear")
	if stderr.Len() != 0 {
		t.Errorf("expected no stderr output in JSON mode, got %q", stderr.String())
	}
}

func TestWriterInfoSuppressedInQuietMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{QuietMode: true, Stdout: &stdout, Stderr: &stderr}

	w.Info("should not appear")
	if stderr.Len() != 0 {
		t.Errorf("expected no stderr output in quiet mode, got %q", stderr.String())
	}
}

func TestWriterInfoEmitsInDefaultMode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := &Writer{Stdout: &stdout, Stderr: &stderr}

	w.Info("hello %s", "world")
	if stderr.String() != "hello world\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "hello world\n")
	}
}

func TestExitCodeForErrorMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrGeneral, ExitGeneral},
		{ErrNotFound, ExitNotFound},
		{ErrValidation, ExitValidation},
		{ErrConflict, ExitConflict},
		{ErrForbidden, ExitForbidden},
		{ErrUnauthenticated, ExitUnauthenticated},
		{ErrorCode("unknown"), ExitGeneral},
	}

	for _, tt := range tests {
		if got := ExitCodeForError(tt.code); got != tt.want {
			t.Errorf("ExitCodeForError(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{&service.FieldError{Field: "title", Reason: "is required"}, ErrValidation},
		{service.ErrBadCredentials, ErrValidation},
		{service.ErrUnauthenticated, ErrUnauthenticated},
		{fmt.Errorf("wrapped: %w", service.ErrForbidden), ErrForbidden},
		{fmt.Errorf("user %q: %w", "bob", service.ErrNotFound), ErrNotFound},
		{service.ErrConflict, ErrConflict},
		{service.ErrAmbiguous, ErrGeneral},
		{errors.New("disk on fire"), ErrGeneral},
	}

	for _, tt := range tests {
		if got := CodeFor(tt.err); got != tt.want {
			t.Errorf("CodeFor(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatusForError(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrGeneral, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatusForError(tt.code); got != tt.want {
			t.Errorf("HTTPStatusForError(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorEnvelopeCarriesField(t *testing.T) {
	var buf bytes.Buffer
	writeJSONError(&buf, &service.FieldError{Field: "title", Reason: "is required"}, ErrValidation)

	var env ErrorEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Field != "title" {
		t.Errorf("field = %q, want %q", env.Field, "title")
	}
	if env.Error != "title is required" {
		t.Errorf("error = %q, want %q", env.Error, "title is required")
	}
}
