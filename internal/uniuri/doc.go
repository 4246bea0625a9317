// Package uniuri generates random tokens from an alphabet without modulo bias.
//
// Tokens are used as admin api tokens, only their argon2id hash is kept in the config.
package uniuri
