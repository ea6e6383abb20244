// Package i18n 接口提示文案的多语言解析。
package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"

	// DefaultLocale 请求未指定语言时使用
	DefaultLocale = LocaleEN
)

// Normalize 将任意语言标签归一到已支持的语言
func Normalize(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case tag == "":
		return ""
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH
	case strings.HasPrefix(tag, "en"):
		return LocaleEN
	default:
		return ""
	}
}

// ResolveLocale 依次读取 ?lang= 与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := Normalize(c.Query("lang")); locale != "" {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if locale := Normalize(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 返回文案，缺失时回落到默认语言，再缺失返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[Normalize(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
