package repository

import (
	"context"
	"fmt"

	"github.com/tadka-labs/storefront/internal/schema"
)

// loadDocument 读取并解码文档，任意版本均可读；文档不存在时按空文档解码
func loadDocument[T any](ctx context.Context, store StoreRepository, key string, decode func(raw []byte) (T, int, error)) (T, error) {
	var raw []byte
	entry, err := store.GetByKey(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	if entry != nil {
		raw = []byte(entry.Value)
	}
	items, _, err := decode(raw)
	if err != nil {
		return items, fmt.Errorf("load %s: %w", key, err)
	}
	return items, nil
}

// saveDocument 以当前版本写入文档
func saveDocument(ctx context.Context, store StoreRepository, key string, items interface{}) error {
	payload, err := schema.Encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Upsert(ctx, key, payload, schema.CurrentVersion)
}
