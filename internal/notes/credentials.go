package notes

import (
	"crypto/rand"
	"fmt"
)

const (
	noteIDLength   = 10
	passwordLength = 8

	// noteIDAlphabet keeps identifiers URL-safe without escaping.
	noteIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	// passwordAlphabet excludes visually ambiguous characters (0/O, 1/l/I)
	// because passwords are shown once and retyped by hand.
	passwordAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
)

// CredentialProvider issues the public identifier and one-time password for a new note.
type CredentialProvider interface {
	NewNoteID() (string, error)
	NewPassword() (string, error)
}

type randomCredentialProvider struct{}

// NewCredentialProvider constructs a CredentialProvider backed by crypto/rand.
func NewCredentialProvider() CredentialProvider {
	return &randomCredentialProvider{}
}

func (p *randomCredentialProvider) NewNoteID() (string, error) {
	return randomString(noteIDAlphabet, noteIDLength)
}

func (p *randomCredentialProvider) NewPassword() (string, error) {
	return randomString(passwordAlphabet, passwordLength)
}

// randomString draws length characters uniformly from the alphabet. Bytes that
// would skew the modulo are rejected so no character is favored.
func randomString(alphabet string, length int) (string, error) {
	alphabetSize := len(alphabet)
	rejectionBound := 256 - (256 % alphabetSize)

	result := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(result) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("notes: random source failed: %w", err)
		}
		for _, value := range buffer {
			if int(value) >= rejectionBound {
				continue
			}
			result = append(result, alphabet[int(value)%alphabetSize])
			if len(result) == length {
				break
			}
		}
	}
	return string(result), nil
}
