package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileField is a file part of a multipart form.
type FileField struct {
	Filename string
	Data     []byte
}

// MultipartBody encodes fields and files as multipart/form-data. It returns
// the body and the Content-Type header value to send with it.
func MultipartBody(t *testing.T, fields map[string]string, files map[string]FileField) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for name, file := range files {
		part, err := writer.CreateFormFile(name, file.Filename)
		require.NoError(t, err)
		_, err = part.Write(file.Data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

// CleanupResponseBody registers a cleanup function to close the response body
// to prevent resource leaks.
func CleanupResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp != nil && resp.Body != nil {
		t.Cleanup(func() {
			if err := resp.Body.Close(); err != nil {
				t.Logf("Warning: failed to close response body: %v", err)
			}
		})
	}
}

// DecodeJSON decodes r into a generic map, failing the test on error.
func DecodeJSON(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(r).Decode(&out), "response body must be JSON")
	return out
}

// AssertValidationFields checks that a decoded 422 body lists exactly the
// expected offending fields.
func AssertValidationFields(t *testing.T, body map[string]interface{}, fields ...string) {
	t.Helper()

	assert.Equal(t, "Validation failed", body["error"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "errors must be an object, got %T", body["errors"])
	assert.Len(t, errs, len(fields))
	for _, f := range fields {
		assert.Contains(t, errs, f)
	}
}
