package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrWriteConflict 乐观锁写入冲突：版本号已被其他写入方推进，或主键已被抢先创建
var ErrWriteConflict = errors.New("repository: concurrent write conflict")

// conflictOnZeroRows 条件更新未命中任何行时视为冲突
func conflictOnZeroRows(result *gorm.DB) error {
	if result.Error != nil {
		return translateConflict(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWriteConflict
	}
	return nil
}

func translateConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrWriteConflict
	}
	return err
}
