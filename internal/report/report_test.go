package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	assert.Equal(t, "0", Bytes(0))
	assert.Equal(t, "999", Bytes(999))
	assert.Equal(t, "1,234,567", Bytes(1234567))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "12.3s", Seconds(12340*time.Millisecond))
}

func TestRule(t *testing.T) {
	assert.Len(t, Rule(), 60)
}

func TestPlainStatus(t *testing.T) {
	assert.Equal(t, "[PASS]", Plain().Status(true))
	assert.Equal(t, "[FAIL]", Plain().Status(false))
	assert.Equal(t, "[PASS]", Styler{}.Status(true))
	assert.Equal(t, "x", Plain().Title("x"))
}

func TestStylerOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "[FAIL]", NewStyler(&buf).Status(false))
}
