package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRelayURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"wss accepted", "wss://relay.walletconnect.com", false},
		{"ws localhost accepted", "ws://localhost:5555", false},
		{"ws loopback accepted", "ws://127.0.0.1:5555", false},
		{"ws remote rejected", "ws://relay.example.com", true},
		{"https rejected", "https://relay.walletconnect.com", true},
		{"empty rejected", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelayURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBridgeURL(t *testing.T) {
	assert.NoError(t, ValidateBridgeURL("ws://localhost:8080/rpc"))
	assert.Error(t, ValidateBridgeURL("http://localhost:8080/rpc"))
}

func TestCreateHTTPClientWithTimeouts(t *testing.T) {
	client := CreateHTTPClientWithTimeouts()
	assert.NotNil(t, client.Transport)
	assert.NotZero(t, client.Timeout)
}
