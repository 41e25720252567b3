package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), "vcdash", "", nil)
	assert.NoError(t, shutdown(context.Background()))
}
