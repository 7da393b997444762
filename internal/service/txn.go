package service

import (
	"context"
	"errors"

	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/metrics"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"gorm.io/gorm"
)

const defaultTxnMaxAttempts = 5

// runTransaction 在乐观并发事务中执行 fn。
// fn 必须先完成全部读取再写入；任一版本校验失败时整体回滚并重新执行 fn（重新读取），
// 最多 maxAttempts 次，耗尽后返回 ErrTransientConflict。
func runTransaction(ctx context.Context, db *gorm.DB, operation string, maxAttempts int, fn func(tx *gorm.DB) error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxnMaxAttempts
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = db.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, repository.ErrWriteConflict) {
			return err
		}
		metrics.RecordTxnConflict(operation, "retry")
		logger.FromContext(ctx).Debugw("txn_write_conflict_retry",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", maxAttempts,
		)
	}
	metrics.RecordTxnConflict(operation, "exhausted")
	logger.FromContext(ctx).Warnw("txn_write_conflict_exhausted",
		"operation", operation,
		"max_attempts", maxAttempts,
		"error", err,
	)
	return ErrTransientConflict
}
