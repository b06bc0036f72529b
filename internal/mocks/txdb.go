package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// TxRecorder counts transaction lifecycle events on a database handle
// created with NewTxDB.
type TxRecorder struct {
	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int

	// BeginErr, when set, is returned from every BeginTx call.
	BeginErr error
	// CommitErr, when set, is returned from every Commit call.
	CommitErr error
}

func (r *TxRecorder) Begins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.begins
}

func (r *TxRecorder) Commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits
}

func (r *TxRecorder) Rollbacks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollbacks
}

// NewTxDB returns a *sql.DB whose connections support only transaction
// begin, commit, and rollback. Statements are not supported; it exists
// so transaction orchestration can be tested against the in-memory
// stores, which ignore the *sql.Tx handle.
func NewTxDB() (*sql.DB, *TxRecorder) {
	rec := &TxRecorder{}
	return sql.OpenDB(&txConnector{rec: rec}), rec
}

type txConnector struct {
	rec *TxRecorder
}

func (c *txConnector) Connect(_ context.Context) (driver.Conn, error) {
	return &txConn{rec: c.rec}, nil
}

func (c *txConnector) Driver() driver.Driver {
	return txDriver{}
}

type txDriver struct{}

func (txDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open by DSN is not supported")
}

type txConn struct {
	rec *TxRecorder
}

func (c *txConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements are not supported")
}

func (c *txConn) Close() error {
	return nil
}

func (c *txConn) Begin() (driver.Tx, error) {
	c.rec.mu.Lock()
	defer c.rec.mu.Unlock()
	if c.rec.BeginErr != nil {
		return nil, c.rec.BeginErr
	}
	c.rec.begins++
	return &txHandle{rec: c.rec}, nil
}

type txHandle struct {
	rec *TxRecorder
}

func (t *txHandle) Commit() error {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	if t.rec.CommitErr != nil {
		return t.rec.CommitErr
	}
	t.rec.commits++
	return nil
}

func (t *txHandle) Rollback() error {
	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	t.rec.rollbacks++
	return nil
}
