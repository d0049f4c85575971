package auth

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")

	token, err := tm.SignAccess("user-123", "manager")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, role, err := tm.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-123" || role != "manager" {
		t.Errorf("got sub=%q role=%q", sub, role)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")

	token, err := tm.SignRefresh("user-123")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := tm.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-123" {
		t.Errorf("sub = %q", sub)
	}
}

func TestTokenFamiliesAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")

	refresh, _ := tm.SignRefresh("user-123")
	if _, _, err := tm.VerifyAccess(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	access, _ := tm.SignAccess("user-123", "admin")
	if _, err := tm.VerifyRefresh(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret")
	other := NewTokenManager("different", "secrets")

	token, _ := tm.SignAccess("user-123", "admin")
	if _, _, err := other.VerifyAccess(token); err == nil {
		t.Error("token signed with another secret verified")
	}
}
