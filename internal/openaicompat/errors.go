package openaicompat

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/polli"
)

// wrapError turns SDK API errors into *polli.HTTPError so callers see the
// same error type as every other operation.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	httpErr := &polli.HTTPError{
		Operation:  "openai",
		StatusCode: apiErr.StatusCode,
		Body:       apiErr.Message,
	}
	if apiErr.Response != nil {
		httpErr.Status = apiErr.Response.Status
		httpErr.RequestID = polli.RequestIDFrom(apiErr.Response.Header)
	}
	if httpErr.Body == "" {
		httpErr.Body = apiErr.RawJSON()
	}
	return httpErr
}
