package domain

import (
	"regexp"
	"strings"
)

var (
	walletPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashPattern = regexp.MustCompile(`^0x[a-f0-9]{64}$`)
)

// NormalizeWallet validates an Ethereum address and returns its
// canonical lowercase form. All addresses are normalized once at the
// ingestion boundary so later comparisons are plain equality.
func NormalizeWallet(wallet string) (string, error) {
	wallet = strings.TrimSpace(wallet)
	if !walletPattern.MatchString(wallet) {
		return "", Invalidf("invalid wallet address %q", wallet)
	}
	return strings.ToLower(wallet), nil
}

// NormalizeEmail lowercases and trims an email identity. Shape
// validation is left to the registration flow that created the
// identity; the engine only needs a canonical lookup key.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", Invalidf("invalid email %q", email)
	}
	return email, nil
}

// NormalizeTxHash canonicalizes a settlement transaction hash.
func NormalizeTxHash(hash string) (string, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if !txHashPattern.MatchString(hash) {
		return "", Invalidf("invalid transaction hash %q", hash)
	}
	return hash, nil
}
