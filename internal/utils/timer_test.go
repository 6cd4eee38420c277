package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	OperationTimer("fast", time.Hour, log)()
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"operation":"fast"`)

	buf.Reset()
	done := OperationTimer("slow", time.Nanosecond, log)
	time.Sleep(time.Millisecond)
	done()
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
