package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/dockplate/pkg/errors"
)

// AssertErrorCode checks that err carries code, directly or in a List
func AssertErrorCode(t *testing.T, err error, code errors.ErrorCode) bool {
	t.Helper()
	if !assert.Error(t, err) {
		return false
	}
	return assert.Truef(t, errors.IsErrorCode(err, code), "expected code %s, got: %v", code, err)
}

// AssertErrorDetail checks that some member of err carries key=value
func AssertErrorDetail(t *testing.T, err error, key string, value interface{}) bool {
	t.Helper()
	for _, e := range errors.Flatten(err) {
		if v, ok := e.Details[key]; ok && v == value {
			return true
		}
	}
	return assert.Fail(t, "detail not found", "no error carries %s=%v in: %v", key, value, err)
}
