package pgdb

import (
	"context"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/drosan-dev/marketplace-backend/pkg/e"
	"github.com/jackc/pgx/v5"
)

// TxManager открывает транзакцию, кладет ее в контекст для репозиториев
// и гарантирует откат при любой ошибке внутри fn.
type TxManager struct {
	dbPool transaction.Transactional
}

func NewTxManager(dbPool transaction.Transactional) *TxManager {
	return &TxManager{dbPool: dbPool}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "TxManager.Do"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, m.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = fn(ctx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
