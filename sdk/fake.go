package sdk

import (
	"maps"
	"strconv"
)

// FakeChain is an in-memory Chain for tests and simulations.
//
// Invoke mirrors host semantics: state and logs written by a failing
// invocation are rolled back.
type FakeChain struct {
	state map[string]string
	env   Env
	logs  []string
	txSeq uint64
}

func NewFakeChain(sender Address, ts uint64) *FakeChain {
	return &FakeChain{
		state: make(map[string]string),
		env: Env{
			Sender:    sender,
			Caller:    sender,
			TxID:      "tx0",
			Timestamp: ts,
		},
	}
}

func (f *FakeChain) StateSetObject(key, value string) { f.state[key] = value }

func (f *FakeChain) StateGetObject(key string) *string {
	val, ok := f.state[key]
	if !ok {
		return nil
	}
	return &val
}

func (f *FakeChain) StateDeleteObject(key string) { delete(f.state, key) }

func (f *FakeChain) Log(msg string) { f.logs = append(f.logs, msg) }

func (f *FakeChain) GetEnv() Env { return f.env }

// SetSender makes addr both sender and caller of the next invocation.
func (f *FakeChain) SetSender(addr Address) {
	f.env.Sender = addr
	f.env.Caller = addr
}

// SetCaller overrides the immediate caller only (a contract calling in).
func (f *FakeChain) SetCaller(addr Address) { f.env.Caller = addr }

func (f *FakeChain) SetContractID(addr Address) { f.env.ContractID = addr }

func (f *FakeChain) SetTime(ts uint64) { f.env.Timestamp = ts }

// Advance moves block time forward by secs.
func (f *FakeChain) Advance(secs uint64) { f.env.Timestamp += secs }

func (f *FakeChain) SetIntents(intents []Intent) { f.env.Intents = intents }

// Logs returns every event logged by committed invocations.
func (f *FakeChain) Logs() []string { return f.logs }

// Len reports the number of keys in state.
func (f *FakeChain) Len() int { return len(f.state) }

// Invoke runs fn as one atomic invocation.
func (f *FakeChain) Invoke(fn func() error) error {
	f.txSeq++
	f.env.TxID = "tx" + strconv.FormatUint(f.txSeq, 10)
	snapshot := maps.Clone(f.state)
	logMark := len(f.logs)
	if err := fn(); err != nil {
		f.state = snapshot
		f.logs = f.logs[:logMark]
		return err
	}
	return nil
}
