package unitofwork

import (
	"context"
	"errors"

	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTransactionStarted = errors.New("unitofwork: transaction already started")
	ErrNoTransaction      = errors.New("unitofwork: no transaction to commit")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // open transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

func (u *UnitOfWorkImpl) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionStarted
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return nil
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) ProviderRepository() contract.ProviderRepository {
	return implementation.NewProviderRepository(u.conn())
}
