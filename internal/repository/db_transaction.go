package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// InTransaction runs fn inside one transaction. fn's error or a panic rolls it
// back; otherwise it is committed.
func (r *Repository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		r.logger.Errorf("Failed to start transaction: %v", tx.Error)
		return fmt.Errorf("failed to start transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("Rolling back transaction after panic: %v", p)
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		r.logger.Debugf("Rolling back transaction: %v", err)
		if rbErr := tx.Rollback().Error; rbErr != nil {
			r.logger.Errorf("Rollback failed: %v", rbErr)
		}
		return err
	}

	if err = tx.Commit().Error; err != nil {
		r.logger.Errorf("Failed to commit transaction: %v", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
