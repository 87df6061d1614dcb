package operation

const (
	// codes for entities
	codePendingTransaction = 10
)

func makePrefix(code byte, keys ...[]byte) []byte {
	prefix := []byte{code}
	for _, key := range keys {
		prefix = append(prefix, key...)
	}
	return prefix
}
