// Package ledger hosts contract state in Badger. Every invocation runs inside
// one read-write transaction; an error from the invocation discards it, so
// all state touched by the call (contract, vault, router and token balances)
// commits or rolls back together.
package ledger

import (
	"github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"okinoko-faction_arena/sdk"
)

// ErrReadOnly is returned by View when the callback tried to write.
var ErrReadOnly = errors.New("write in read-only invocation")

// Store is the on-disk ledger.
type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Open opens the ledger in dir. An empty dir keeps everything in memory.
func Open(dir string, log *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log.Sugar().Named("badger")})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger %q", dir)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Update runs fn as one atomic invocation under env and returns the events it
// logged. Nothing is written when fn fails.
func (s *Store) Update(env sdk.Env, fn func(sdk.Chain) error) ([]string, error) {
	var logs []string
	err := s.db.Update(func(txn *badger.Txn) error {
		c := &txnChain{txn: txn, env: env}
		if err := fn(c); err != nil {
			return err
		}
		if c.err != nil {
			return errors.Wrap(c.err, "ledger write")
		}
		logs = c.logs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// View runs fn against a read-only snapshot.
func (s *Store) View(env sdk.Env, fn func(sdk.Chain) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		c := &txnChain{txn: txn, env: env, readOnly: true}
		if err := fn(c); err != nil {
			return err
		}
		return c.err
	})
}

// txnChain adapts a Badger transaction to sdk.Chain. The first write error
// sticks and fails the invocation.
type txnChain struct {
	txn      *badger.Txn
	env      sdk.Env
	logs     []string
	err      error
	readOnly bool
}

func (c *txnChain) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *txnChain) StateGetObject(key string) *string {
	item, err := c.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		c.fail(errors.Wrapf(err, "get %q", key))
		return nil
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		c.fail(errors.Wrapf(err, "read %q", key))
		return nil
	}
	s := string(v)
	return &s
}

func (c *txnChain) StateSetObject(key, value string) {
	if c.readOnly {
		c.fail(ErrReadOnly)
		return
	}
	if err := c.txn.Set([]byte(key), []byte(value)); err != nil {
		c.fail(errors.Wrapf(err, "set %q", key))
	}
}

func (c *txnChain) StateDeleteObject(key string) {
	if c.readOnly {
		c.fail(ErrReadOnly)
		return
	}
	if err := c.txn.Delete([]byte(key)); err != nil {
		c.fail(errors.Wrapf(err, "delete %q", key))
	}
}

func (c *txnChain) Log(msg string) { c.logs = append(c.logs, msg) }

func (c *txnChain) GetEnv() sdk.Env { return c.env }

// badgerLogger routes Badger's logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
