package firestoreinfra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingRejectsNilClient(t *testing.T) {
	var cw *ClientWrapper
	assert.Error(t, cw.Ping(context.Background()))
	assert.Error(t, (&ClientWrapper{}).Ping(context.Background()))
}

func TestCloseNilClientIsNoop(t *testing.T) {
	var cw *ClientWrapper
	assert.NoError(t, cw.Close())
	assert.NoError(t, (&ClientWrapper{}).Close())
}
