/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// newCode returns a random code that taken reports as unused.
// The caller must hold whatever lock protects the set taken inspects.
func newCode(taken func(string) bool) string {
	// bytes at or above this are rejected so every symbol is equally likely
	limit := 256 - 256%len(codeAlphabet)

	buf := make([]byte, 1)
	for {
		out := make([]byte, 0, codeLength)
		for len(out) < codeLength {
			if _, err := rand.Read(buf); err != nil {
				panic("crypto/rand failure: " + err.Error())
			}
			if int(buf[0]) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(buf[0])%len(codeAlphabet)])
		}
		code := string(out)

		if !taken(code) {
			return code
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
