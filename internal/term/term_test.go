package term

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/lorarenamer/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorNever)
	assert.False(t, Enabled())
	assert.Equal(t, "[INFO]", Paint(Blue, "[INFO]"))

	Configure(config.ColorAlways)
	assert.True(t, Enabled())
	painted := Paint(Blue, "[INFO]")
	assert.NotEqual(t, "[INFO]", painted)
	assert.Contains(t, painted, "[INFO]")
	assert.Contains(t, painted, "\x1b[")
}
