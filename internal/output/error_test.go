package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/mipd/internal/output"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func TestFormatError_NilError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, nil, output.FormatText))
	assert.Empty(t, buf.String())
}

func TestFormatError_GenericError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, errors.New("boom"), output.FormatJSON))

	var got output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "GENERAL_ERROR", got.Error.Code)
	assert.Equal(t, "boom", got.Error.Message)
	assert.Equal(t, mipderr.ExitGeneral, got.Error.ExitCode)

	buf.Reset()
	require.NoError(t, output.FormatError(&buf, errors.New("boom"), output.FormatText))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestFormatError_AllFields_JSON(t *testing.T) {
	t.Parallel()

	err := mipderr.WithSuggestion(
		mipderr.WithDetails(mipderr.ErrProviderNotFound, map[string]string{"query": "metamsk"}),
		"did you mean MetaMask?",
	)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var got output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "PROVIDER_NOT_FOUND", got.Error.Code)
	assert.Equal(t, map[string]string{"query": "metamsk"}, got.Error.Details)
	assert.Equal(t, "did you mean MetaMask?", got.Error.Suggestion)
	assert.Equal(t, mipderr.ExitNotFound, got.Error.ExitCode)
	assert.Contains(t, buf.String(), "\n  \"error\"", "indented output")
}

func TestFormatError_AllFields_Text(t *testing.T) {
	t.Parallel()

	err := mipderr.WithSuggestion(
		mipderr.WithDetails(mipderr.ErrConfigInvalid, map[string]string{"b": "2", "a": "1"}),
		"run mipd config init",
	)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))

	want := "Error: configuration file is invalid\n" +
		"\nDetails:\n  a: 1\n  b: 2\n" +
		"\nSuggestion: run mipd config init\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatError_AuthorizationMessageVerbatim(t *testing.T) {
	t.Parallel()

	msg := "Code: 4001 \nError Message: User rejected the request."
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, mipderr.WithMessage(mipderr.ErrAuthorization, msg, nil), output.FormatText))
	assert.Equal(t, "Error: "+msg+"\n", buf.String())
}

func TestFormatError_WriterError(t *testing.T) {
	t.Parallel()
	assert.Error(t, output.FormatError(failingWriter{}, errors.New("x"), output.FormatText))
}

func TestFormatSuccess(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, output.FormatSuccess(&buf, "done", output.FormatJSON))
	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string]string{"status": "success", "message": "done"}, got)

	buf.Reset()
	require.NoError(t, output.FormatSuccess(&buf, "done", output.FormatText))
	assert.Equal(t, "done\n", buf.String())
}
