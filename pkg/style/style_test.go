package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMark(t *testing.T) {
	assert.Equal(t, SuccessMark, StatusMark("passed"))
	assert.Equal(t, ErrorMark, StatusMark("failed"))
	assert.Equal(t, SkipMark, StatusMark("skipped"))
	assert.Equal(t, WarningMark, StatusMark("other"))
}

func TestCategoryStyle(t *testing.T) {
	assert.Equal(t, "x", CategoryStyle("nope").Render("x"))
	assert.NotNil(t, StatusStyle("passed"))
}
