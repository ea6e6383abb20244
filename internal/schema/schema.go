// Package schema 文档存储的版本化编解码。
//
// 历史数据（版本 1）是前端直接写入的裸 JSON，字段名不统一；
// 当前版本以 {"version":2,"items":...} 信封保存规范结构。
// 所有读取都经过这里，业务层只会看到规范类型。
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// LegacyVersion 无信封的历史格式
	LegacyVersion = 1
	// CurrentVersion 当前写入格式
	CurrentVersion = 2
)

// ErrCorrupt 文档无法解析
var ErrCorrupt = errors.New("schema: corrupt document")

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// Encode 以当前版本信封编码
func Encode(items interface{}) ([]byte, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: CurrentVersion, Items: payload})
}

// unwrap 识别文档版本并返回内层载荷
func unwrap(raw []byte) (int, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return CurrentVersion, nil, nil
	}
	if !json.Valid(trimmed) {
		return 0, nil, ErrCorrupt
	}
	if trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		rawVersion, hasVersion := probe["version"]
		items, hasItems := probe["items"]
		if hasVersion && hasItems {
			var version int
			if err := json.Unmarshal(rawVersion, &version); err != nil {
				return 0, nil, fmt.Errorf("%w: bad version: %v", ErrCorrupt, err)
			}
			if version > CurrentVersion {
				return 0, nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
			}
			return version, items, nil
		}
	}
	return LegacyVersion, trimmed, nil
}

func isEmpty(payload json.RawMessage) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
