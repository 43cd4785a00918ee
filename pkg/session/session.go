package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sigweihq/wcsign/pkg/caip"
)

// Session is an established WalletConnect pairing with a wallet. Accounts
// are the CAIP-10 accounts the wallet approved for this session.
type Session struct {
	Topic    string
	Accounts []caip.Account
	Expiry   time.Time
}

// Expired reports whether the session expiry has passed. A zero expiry
// never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && now.After(s.Expiry)
}

// AccountsOn returns the approved accounts on the given chain
func (s *Session) AccountsOn(chain caip.ChainID) []caip.Account {
	var accounts []caip.Account
	for _, account := range s.Accounts {
		if account.Chain == chain {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// Requester carries a signing request to the wallet on the other side of a
// session and returns the wallet's raw response. The WalletConnect engine
// itself lives behind this interface.
type Requester interface {
	Request(ctx context.Context, topic string, chainID caip.ChainID, method string, params any) (json.RawMessage, error)
}
