package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tadka-labs/storefront/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// legacyObject 历史对象，字段按别名顺序读取
type legacyObject map[string]json.RawMessage

func (o legacyObject) raw(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if value, ok := o[key]; ok && !isEmpty(value) {
			return value, true
		}
	}
	return nil, false
}

func (o legacyObject) str(keys ...string) string {
	value, ok := o.raw(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// 数字 id（前端常用 Date.now()）
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return ""
}

func (o legacyObject) money(keys ...string) models.Money {
	value, ok := o.raw(keys...)
	if !ok {
		return models.Money{}
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		parsed, err := models.ParseMoney(s)
		if err != nil {
			return models.Money{}
		}
		return parsed
	}
	d, err := decimal.NewFromString(string(bytes.TrimSpace(value)))
	if err != nil {
		return models.Money{}
	}
	return models.NewMoneyFromDecimal(d)
}

func (o legacyObject) integer(fallback int, keys ...string) int {
	value, ok := o.raw(keys...)
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	d, err := decimal.NewFromString(string(bytes.TrimSpace(value)))
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

func (o legacyObject) boolean(fallback bool, keys ...string) bool {
	value, ok := o.raw(keys...)
	if !ok {
		return fallback
	}
	var b bool
	if err := json.Unmarshal(value, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return fallback
}

func newID() string {
	return uuid.NewString()
}
