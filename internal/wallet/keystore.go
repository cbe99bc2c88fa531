package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// ErrWrongPassphrase is returned when a sealed seed cannot be opened with the
// supplied passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrWalletLocked is returned by operations that need key material while the
// wallet is locked.
var ErrWalletLocked = errors.New("wallet is locked")

// Key derivation and sealing parameters. The scrypt cost is deliberately
// interactive-grade: unlocking happens on every wallet open.
const (
	scryptN  = 1 << 15
	scryptR  = 8
	scryptP  = 1
	saltSize = 16
	keySize  = 32
)

// SealedSeed is the encrypted mnemonic as stored in the wallet file.
type SealedSeed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func deriveSealKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// sealMnemonic encrypts the mnemonic under a passphrase-derived key with
// AES-256-GCM.
func sealMnemonic(mnemonic, passphrase string) (*SealedSeed, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveSealKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return &SealedSeed{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, []byte(mnemonic), nil),
	}, nil
}

// openMnemonic decrypts a sealed mnemonic. A failed authentication is
// reported as ErrWrongPassphrase.
func openMnemonic(sealed *SealedSeed, passphrase string) (string, error) {
	key, err := deriveSealKey(passphrase, sealed.Salt)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create gcm: %w", err)
	}
	if len(sealed.Nonce) != gcm.NonceSize() {
		return "", ErrWrongPassphrase
	}

	plain, err := gcm.Open(nil, sealed.Nonce, sealed.Ciphertext, nil)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plain), nil
}
