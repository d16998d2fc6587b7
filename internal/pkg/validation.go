package pkg

import (
	"strings"
	"unicode/utf8"
)

// MinBodyLength 帖子与回答正文的最小长度（按字符计）
const MinBodyLength = 10

// CheckEmpty 去掉首尾空白后是否为空
func CheckEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ValidLength 去掉首尾空白后长度是否 >= min
func ValidLength(text string, min int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= min
}
