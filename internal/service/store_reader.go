package service

import (
	"errors"

	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/schema"
)

// tolerateCorrupt 文档损坏时记录告警并按空集合处理，其余错误原样返回
func tolerateCorrupt[T any](items T, err error, collection string) (T, error) {
	if err == nil {
		return items, nil
	}
	if errors.Is(err, schema.ErrCorrupt) {
		logger.Warnw("store_document_corrupt", "collection", collection, "error", err)
		var empty T
		return empty, nil
	}
	return items, err
}
