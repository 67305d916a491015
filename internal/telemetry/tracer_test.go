package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitProviderWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), "", "upi-checkout", zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}
