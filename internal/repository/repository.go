// Package repository contains the gorm-backed implementations of the domain
// repository interfaces.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clinicapp/clinic-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const serializationFailure = "40001"

// maxTxRetries bounds retries of transactions aborted by the database's
// serializability check under concurrent load.
const maxTxRetries = 3

type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// RunSerializable executes fn inside a serializable transaction, retrying a
// bounded number of times when postgres aborts it with a serialization
// failure. Domain errors returned by fn are surfaced unchanged.
func (u *UnitOfWork) RunSerializable(ctx context.Context, fn func(ctx context.Context, s domain.Stores) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, domain.Stores{
				Appointments:  NewAppointmentRepository(tx),
				Notifications: NewNotificationRepository(tx),
			})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
