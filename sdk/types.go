// Package sdk describes the surface a contract sees of the ledger it runs on:
// key/value state, the call environment and the event log.
package sdk

// Address is an opaque, externally verified account or contract identifier.
type Address string

func (a Address) String() string { return string(a) }

// Asset identifies a token by symbol or contract address.
type Asset string

func (a Asset) String() string { return string(a) }

// Intent is a host-level permission attached to a transaction, e.g. a
// transfer allowance.
type Intent struct {
	Type string            `json:"type"`
	Args map[string]string `json:"args"`
}

// Env is the environment of a single invocation.
type Env struct {
	// Sender is the account that signed the transaction.
	Sender Address
	// Caller is the immediate caller; a contract address for nested calls.
	Caller Address
	// ContractID is the address of the contract being executed.
	ContractID Address
	TxID       string
	// Timestamp is the block time in unix seconds.
	Timestamp uint64
	Intents   []Intent
}
