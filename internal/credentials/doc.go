// Package credentials implements the encrypted-document lifecycle: master
// key resolution, authenticated encryption, atomic persistence, the staged
// edit session, and dotted-path lookup over the decrypted document.
//
// # Envelope format
//
// The on-disk file is base64 text wrapping a versioned binary envelope:
// one version byte, a 24-byte random nonce, then the NaCl secretbox
// ciphertext and tag. Decryption authenticates before returning anything;
// a wrong key or a single flipped bit yields ErrAuthenticationFailed,
// never garbage plaintext.
//
// # Plaintext hygiene
//
// Decrypted credentials live in memory. The only time plaintext touches
// disk is the edit session's staged file, created 0600 in the system
// temporary directory and scrubbed on Close regardless of how the session
// ends.
package credentials
