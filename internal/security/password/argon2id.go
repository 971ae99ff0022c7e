// Package password deriva y verifica hashes de credenciales con argon2id.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
	SaltLen     uint32
}

var Default = Params{Memory: 64 * 1024, Time: 3, Parallelism: 1, KeyLen: 32, SaltLen: 16}

// Hash deriva la credencial y retorna hash y salt por separado (base64 raw),
// tal como se persisten en la cuenta.
func Hash(p Params, plain string) (hash, salt string, err error) {
	if plain == "" {
		return "", "", fmt.Errorf("empty password")
	}
	rawSalt := make([]byte, p.SaltLen)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", err
	}
	dk := argon2.IDKey([]byte(plain), rawSalt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return base64.RawStdEncoding.EncodeToString(dk),
		base64.RawStdEncoding.EncodeToString(rawSalt),
		nil
}

// Verify rehace la derivación con el salt guardado y compara en tiempo constante.
func Verify(p Params, plain, hash, salt string) bool {
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}
	stored, err := base64.RawStdEncoding.DecodeString(hash)
	if err != nil || len(stored) == 0 {
		return false
	}
	key := argon2.IDKey([]byte(plain), rawSalt, p.Time, p.Memory, p.Parallelism, uint32(len(stored)))
	return subtle.ConstantTimeCompare(key, stored) == 1
}
