package sdk

// Chain is the host abstraction every contract call runs against.
//
// All writes made through a Chain during one invocation are applied
// atomically by the host: if the invocation returns an error they are
// discarded as a unit.
type Chain interface {
	StateGetObject(key string) *string
	StateSetObject(key, value string)
	StateDeleteObject(key string)
	Log(msg string)
	GetEnv() Env
}

// WithEnv returns a Chain that shares state and log with c but reports env.
// Hosts use it for nested contract calls.
func WithEnv(c Chain, env Env) Chain {
	return &envChain{Chain: c, env: env}
}

type envChain struct {
	Chain
	env Env
}

func (e *envChain) GetEnv() Env { return e.env }
