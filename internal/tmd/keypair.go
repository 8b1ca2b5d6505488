package tmd

import "crypto/ed25519"

// KeyPair is an Ed25519 signing/verifying keypair used to seal documents.
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// GenerateKeyPair creates a fresh random Ed25519 keypair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return KeyPair{}, ErrCrypto("generate keypair", err)
	}
	return KeyPair{Private: priv, Public: pub}, nil
}

// Sign signs message with the keypair's private key.
func (kp KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.Private, message)
}
