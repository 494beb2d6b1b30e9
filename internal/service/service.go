package service

import (
	"errors"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
)

// mapNotFound 将存储层 ErrNotFound 转换为领域 NotFoundError，其余错误原样返回
func mapNotFound(err error, kind, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return model.NewNotFound(kind, id)
	}
	return err
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

func isDuplicate(err error) bool { return errors.Is(err, store.ErrDuplicate) }
