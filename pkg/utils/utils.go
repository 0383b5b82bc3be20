// Package utils 提供 hash/serialize 等通用工具。
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SHA256Hash 计算 SHA256 哈希。
func SHA256Hash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ToJSON 将对象转换为 JSON 字符串。
func ToJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// FromJSON 从 JSON 字符串解析对象。
func FromJSON(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}

// CanonicalHash 计算对象规范化 JSON 的 SHA256 哈希。
// encoding/json 对 struct 按字段声明顺序、对 map 按键排序输出，
// 因此同一输入总是得到同一哈希，可用作确定性校验指纹。
func CanonicalHash(v any) string {
	return SHA256Hash(ToJSON(v))
}
