package engine

import (
	"fmt"

	"vddb/internal/dberr"
	"vddb/internal/logging"
)

func (e *DBEngine) beginTx() error {
	if e.inTx {
		return dberr.New(dberr.KindTransactionAlreadyActive, "transaction %d already in progress", e.currTx.ID())
	}

	tx, err := e.store.Begin(false) // writeable transaction
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	e.currTx = tx
	e.inTx = true
	logging.WithTx("engine", tx.ID()).Info("transaction started")
	return nil
}

func (e *DBEngine) commitTx() error {
	if !e.inTx {
		return dberr.New(dberr.KindNoActiveTransaction, "no active transaction to commit")
	}

	id := e.currTx.ID()
	if err := e.store.Commit(e.currTx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	e.currTx = nil
	e.inTx = false
	logging.WithTx("engine", id).Info("transaction committed")
	return nil
}

func (e *DBEngine) rollbackTx() error {
	if !e.inTx {
		return dberr.New(dberr.KindNoActiveTransaction, "no active transaction to rollback")
	}

	id := e.currTx.ID()
	if err := e.store.Rollback(e.currTx); err != nil {
		return fmt.Errorf("rollback tx: %w", err)
	}

	e.currTx = nil
	e.inTx = false
	logging.WithTx("engine", id).Info("transaction rolled back")
	return nil
}
