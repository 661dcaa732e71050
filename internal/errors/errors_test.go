package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := UnsupportedFormat(stderrors.New("notes.txt"))
	wrapped := Wrap(base, "parse upload")

	assert.Equal(t, CodeUnsupportedFormat, GetCode(wrapped))
	assert.Equal(t, "parse upload: unsupported file format: notes.txt", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapThroughFmt(t *testing.T) {
	inner := fmt.Errorf("sheet 2: %w", NotFound("import"))
	wrapped := Wrapf(inner, "load %s", "abc")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.True(t, IsAppError(inner))
}

func TestWrapPlainError(t *testing.T) {
	wrapped := Wrap(stderrors.New("disk full"), "save import")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeBusy, stderrors.New("too many uploads"))
	assert.Equal(t, CodeBusy, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
