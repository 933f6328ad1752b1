// Package audit records credential operations as JSON Lines.
//
// The log lives beside the encrypted credentials file so it can be
// committed with the project, giving a team a shared history of who ran
// generate-key, edit, and diffing enrollment. Entries never contain key
// material or decrypted content, and a failure to write the log never
// fails the operation being logged.
package audit
