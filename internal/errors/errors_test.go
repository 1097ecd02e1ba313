package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "binding error",
			code:    "B001",
			wantMsg: "Input assignment failed",
			wantCat: CategoryBinding,
		},
		{
			name:    "lifecycle error",
			code:    "B020",
			wantMsg: "Coordinator torn down",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "scenario error",
			code:    "S002",
			wantMsg: "Scenario expectation failed",
			wantCat: CategoryScenario,
		},
		{
			name:    "unknown error code",
			code:    "X999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.Equal(t, tt.wantCat, err.Category)
			assert.Equal(t, tt.code, err.Code)
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("B001").WithDetail(`input "count"`)
	assert.Equal(t, `B001: Input assignment failed: input "count"`, err.Error())

	wrapped := New("S003").Wrap(fmt.Errorf("open x.yaml: missing"))
	assert.Equal(t, "S003: Scenario source unavailable: open x.yaml: missing", wrapped.Error())

	assert.Equal(t, "plain 3", Newf(CategoryCLI, "plain %d", 3).Error())
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("pass: %w", New("B002").WithDetail("output \"x\""))
	assert.True(t, HasCode(err, "B002"))
	assert.False(t, HasCode(err, "B003"))
	assert.True(t, stderrors.Is(err, New("B002")))

	combined := multierr.Combine(New("B001"), New("B003"))
	assert.True(t, HasCode(combined, "B001"))
	assert.True(t, HasCode(combined, "B003"))
	assert.False(t, HasCode(combined, "B002"))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := New("S003").Wrap(cause)
	assert.ErrorIs(t, err, cause)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil, "C001"))

	orig := New("C002")
	assert.Same(t, orig, FromError(fmt.Errorf("wrap: %w", orig), "C001"))

	plain := stderrors.New("bad json")
	got := FromError(plain, "C001")
	assert.Equal(t, "C001", got.Code)
	assert.ErrorIs(t, got, plain)
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("B001").
		WithDetail("cannot assign string to int").
		Wrap(stderrors.New("reflect"))
	out := err.Format()

	assert.Contains(t, out, "ERROR B001: Input assignment failed")
	assert.Contains(t, out, "cannot assign string to int")
	assert.Contains(t, out, "Caused by: reflect")
	assert.Contains(t, out, "Hint: ")
	assert.Equal(t, "B001: Input assignment failed", err.FormatCompact())
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain"))
	assert.Contains(t, buf.String(), "ERROR: plain")

	buf.Reset()
	Fprint(&buf, multierr.Combine(New("B001"), stderrors.New("other")))
	assert.Contains(t, buf.String(), "ERROR B001")
	assert.Contains(t, buf.String(), "other")
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Nil(t, wrapText("", 10))
}

func TestGetAllCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	assert.Contains(t, codes, "B001")
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}
	tmpl, ok := GetTemplate("C001")
	assert.True(t, ok)
	assert.Equal(t, CategoryConfig, tmpl.Category)
}
