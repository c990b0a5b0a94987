// Package secret sella valores sensibles (token del backend, client_secret de
// la conexión) antes de persistirlos, usando NaCl secretbox.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrCorrupt el valor sellado no pudo abrirse (clave distinta o datos alterados).
var ErrCorrupt = errors.New("secret: valor sellado inválido")

// Box sella y abre cadenas con una clave simétrica fija.
type Box struct {
	key [32]byte
}

// NewBox deriva la clave de 32 bytes a partir de la clave configurada.
func NewBox(key string) (*Box, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("secret: la clave debe tener al menos 32 caracteres")
	}
	return &Box{key: sha256.Sum256([]byte(key))}, nil
}

// Seal cifra plain y devuelve nonce+ciphertext en base64. Cadena vacía se mantiene vacía.
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secret: generar nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open revierte Seal.
func (b *Box) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrCorrupt
	}
	return string(plain), nil
}
