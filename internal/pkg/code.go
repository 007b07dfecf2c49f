package pkg

import (
	cryptoRand "crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

// UploadName 上传文件名：<字段>-<毫秒时间戳>-<9位随机数><扩展名>
func UploadName(field, ext string, now time.Time) (string, error) {
	suffix, err := RandDigits(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s%s", field, now.UnixMilli(), suffix, ext), nil
}
