package pkg

import (
	cryptoRand "crypto/rand"
	"encoding/hex"
)

// RandHex 生成 n 字节随机数的十六进制串，用于生成签名密钥
func RandHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := cryptoRand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
