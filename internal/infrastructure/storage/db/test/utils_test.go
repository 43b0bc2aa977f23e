package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

func makeStep(
	email string, plan domain.MembershipPlan, step domain.Step,
) domain.MembershipStep {
	s, _ := domain.NewMembershipStep(email, plan, step)
	return *s
}

func randomEmail() string {
	return fmt.Sprintf("%s@keyguard.test", randomHex(8))
}

func randomXfp() string {
	return randomHex(4)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
