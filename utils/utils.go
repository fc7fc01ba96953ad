package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID returns a short random identifier, used for image filenames.
func GenerateID(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idCharset))))
		if err != nil {
			b[i] = idCharset[0]
			continue
		}
		b[i] = idCharset[n.Int64()]
	}
	return string(b)
}
