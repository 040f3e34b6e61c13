package auth

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/janisto/scoring-api/internal/api"
)

const (
	testSalt      = "Otus"
	testAdminSalt = "42"
)

func sha512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestToken(t *testing.T) {
	a := New(testSalt, testAdminSalt)
	want := sha512Hex("horns&hoofs" + "h&f" + testSalt)
	if got := a.Token("horns&hoofs", "h&f"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestAuthorize_User(t *testing.T) {
	a := New(testSalt, testAdminSalt)
	account := "horns&hoofs"

	req := &api.MethodRequest{Account: &account, Login: "h&f", Token: sha512Hex(account + "h&f" + testSalt)}
	if !a.Authorize(req) {
		t.Fatal("expected valid token to be authorized")
	}

	req.Token = ""
	if a.Authorize(req) {
		t.Fatal("expected empty token to be rejected")
	}

	req.Token = "sdd"
	if a.Authorize(req) {
		t.Fatal("expected bad token to be rejected")
	}

	other := "other"
	req = &api.MethodRequest{Account: &other, Login: "h&f", Token: sha512Hex(account + "h&f" + testSalt)}
	if a.Authorize(req) {
		t.Fatal("expected token for another account to be rejected")
	}
}

func TestAuthorize_UserWithoutAccount(t *testing.T) {
	a := New(testSalt, testAdminSalt)
	req := &api.MethodRequest{Login: "h&f", Token: sha512Hex("h&f" + testSalt)}
	if a.Authorize(req) {
		t.Fatal("expected caller without account to be rejected")
	}
}

func TestAuthorize_Admin(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.Local)
	a := New(testSalt, testAdminSalt, WithClock(func() time.Time { return now }))

	req := &api.MethodRequest{Login: api.AdminLogin, Token: sha512Hex("2026101415" + testAdminSalt)}
	if !a.Authorize(req) {
		t.Fatal("expected current-hour admin token to be authorized")
	}
	if a.AdminToken(now) != req.Token {
		t.Fatal("expected AdminToken to match the current-hour signature")
	}
}

func TestAuthorize_AdminHourWindow(t *testing.T) {
	issued := time.Date(2026, 10, 14, 15, 59, 59, 0, time.Local)
	a := New(testSalt, testAdminSalt)
	token := a.AdminToken(issued)

	for _, tt := range []struct {
		name string
		now  time.Time
		ok   bool
	}{
		{"start of hour", time.Date(2026, 10, 14, 15, 0, 0, 0, time.Local), true},
		{"end of hour", issued, true},
		{"next hour", time.Date(2026, 10, 14, 16, 0, 0, 0, time.Local), false},
		{"previous hour", time.Date(2026, 10, 14, 14, 59, 59, 0, time.Local), false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			clock := New(testSalt, testAdminSalt, WithClock(func() time.Time { return tt.now }))
			got := clock.Authorize(&api.MethodRequest{Login: api.AdminLogin, Token: token})
			if got != tt.ok {
				t.Fatalf("expected %v, got %v", tt.ok, got)
			}
		})
	}
}

func TestAuthorize_AdminIgnoresUserSignature(t *testing.T) {
	a := New(testSalt, testAdminSalt)
	account := "horns&hoofs"
	req := &api.MethodRequest{Account: &account, Login: api.AdminLogin, Token: a.Token(account, api.AdminLogin)}
	if a.Authorize(req) {
		t.Fatal("expected admin login to require the admin signature")
	}
}

func TestAuthorize_LoginIsCaseSensitive(t *testing.T) {
	a := New(testSalt, testAdminSalt)
	account := ""
	req := &api.MethodRequest{Account: &account, Login: "Admin", Token: a.AdminToken(time.Now())}
	if a.Authorize(req) {
		t.Fatal("expected Admin to be treated as a regular login")
	}
}
