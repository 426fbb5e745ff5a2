package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil ledger service returns error", func(t *testing.T) {
		ports := &Ports{Output: "results.csv"}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingLedgerService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Ledger: &mockLedgerService{},
			Output: "results.csv",
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil ledger service returns error", func(t *testing.T) {
		ports := &Ports{Output: "results.csv"}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLedgerService)
	})

	t.Run("missing output returns error", func(t *testing.T) {
		ports := &Ports{Ledger: &mockLedgerService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingOutput)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{Ledger: &mockLedgerService{}, Output: "people.db"}
		assert.NoError(t, ports.Validate())
	})
}
