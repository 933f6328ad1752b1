package errors

import "errors"

// Key errors indicate problems resolving or validating the master key.
var (
	// ErrMasterKeyMissing indicates no master key could be resolved from the
	// environment or the key file.
	ErrMasterKeyMissing = errors.New("master key not found")

	// ErrMasterKeyInvalid indicates a master key was found but is malformed
	// or has the wrong length.
	ErrMasterKeyInvalid = errors.New("master key is invalid")

	// ErrMasterKeyExists indicates a master key file already exists at the
	// target path.
	ErrMasterKeyExists = errors.New("master key file already exists")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrAuthenticationFailed indicates the envelope failed its integrity
	// check, either because the key is wrong or the ciphertext was tampered with.
	ErrAuthenticationFailed = errors.New("credentials failed authentication")

	// ErrEncryptFailed indicates the credentials could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt credentials")
)

// Document errors indicate issues with the decrypted credentials document.
var (
	// ErrMalformedDocument indicates the plaintext does not parse as a
	// YAML mapping.
	ErrMalformedDocument = errors.New("credentials are not a valid YAML mapping")

	// ErrKeyPathNotFound indicates a dotted key path could not be resolved
	// within the credentials document.
	ErrKeyPathNotFound = errors.New("key path not found in credentials")
)

// File errors indicate issues locating files on disk.
var (
	// ErrCredentialsNotFound indicates the encrypted credentials file does not exist.
	ErrCredentialsNotFound = errors.New("credentials file not found")
)

// Session errors indicate failures during an interactive edit session.
var (
	// ErrEditorFailed indicates the external editor could not be launched or
	// exited abnormally.
	ErrEditorFailed = errors.New("editor failed")

	// ErrSessionClosed indicates an operation was attempted on a session that
	// has already been cleaned up.
	ErrSessionClosed = errors.New("edit session already closed")
)
