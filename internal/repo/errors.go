package repo

import (
	"errors"
	"strings"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

// CodeStoreFailure 存储层不可用或未预期的约束错误
const CodeStoreFailure = "STORE_FAILURE"

func storeErr(op string, err error) error {
	return oops.Code(CodeStoreFailure).In("repo").With("op", op).Wrap(err)
}

// isDupKey 优先用 TranslateError 的结果，驱动未翻译时按报错文本兜底
func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
