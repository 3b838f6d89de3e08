package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "kind mismatch",
			code:    CodeKindMismatch,
			wantMsg: "Subject kind mismatch",
			wantCat: CategoryRuntime,
		},
		{
			name:    "binding error",
			code:    CodeIncompatibleBind,
			wantMsg: "Incompatible subject kind for binding",
			wantCat: CategoryBinding,
		},
		{
			name:    "config error",
			code:    CodeConfigInvalid,
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "OBS999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeUnknownSubject).WithOp("inspect.Assign")
	want := "OBS005: inspect.Assign: Unknown subject"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := New(CodeSnapshotStore).Wrap(stderrors.New("access denied"))
	if !strings.HasSuffix(wrapped.Error(), ": access denied") {
		t.Errorf("wrapped Error() = %q", wrapped.Error())
	}
}

func TestIsAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(CodeSnapshotDecode).Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeSnapshotDecode)) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New(CodeConfigInvalid)) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeConfigInvalid) != nil {
		t.Error("FromError(nil) should return nil")
	}

	original := New(CodeKindMismatch)
	if FromError(original, CodeConfigInvalid) != original {
		t.Error("FromError should return an ObserverError unchanged")
	}

	converted := FromError(stderrors.New("x"), CodeConfigInvalid)
	if converted.Code != CodeConfigInvalid {
		t.Errorf("Code = %q, want %q", converted.Code, CodeConfigInvalid)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New(CodeKindMismatch).
		WithOp("subject.SetInt").
		WithSuggestion("Use SetFloat for float subjects").
		Format()

	for _, want := range []string{
		"ERROR OBS001: Subject kind mismatch",
		"op: subject.SetInt",
		"Hint: Use SetFloat for float subjects",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	got := New(CodeInvalidValue).WithOp("inspect.Assign").FormatCompact()
	want := "OBS006: inspect.Assign: Invalid value literal"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("PrintError plain = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, New(CodeConfigNotFound))
	if !strings.Contains(buf.String(), "OBS011") {
		t.Errorf("PrintError structured = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry is empty")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}

	Register("OBS900", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "OBS900")

	tmpl, ok := GetTemplate("OBS900")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate(OBS900) = %+v, %v", tmpl, ok)
	}
	if Message("OBS900") != "custom" {
		t.Errorf("Message(OBS900) = %q", Message("OBS900"))
	}
	if Message("nope") != "nope" {
		t.Errorf("Message(nope) = %q", Message("nope"))
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty string should be nil")
	}
}
