package telegram

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
	"time"
)

const botToken = "123456:test-bot-token"

// signed builds init data the way the Telegram client does.
func signed(v *Verifier, fields map[string]string) string {
	vals := url.Values{}
	for k, f := range fields {
		vals.Set(k, f)
	}
	vals.Set("hash", v.Sign(vals))
	return vals.Encode()
}

func newTestVerifier(now time.Time) *Verifier {
	v := NewVerifier(botToken, time.Hour)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyValid(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	v := newTestVerifier(now)
	data := signed(v, map[string]string{
		"auth_date": strconv.FormatInt(now.Add(-time.Minute).Unix(), 10),
		"query_id":  "AAE",
		"user":      `{"id":42,"username":"u","first_name":"F"}`,
	})

	u, err := v.Verify(data)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.ID != 42 || u.Username != "u" || u.FirstName != "F" {
		t.Fatalf("user = %+v", u)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Unix(1_750_000_000, 0)
	v := newTestVerifier(now)
	fresh := strconv.FormatInt(now.Unix(), 10)
	user := `{"id":42,"first_name":"F"}`

	other := newTestVerifier(now)
	other.secret = secretKey("999:other")

	cases := []struct {
		name string
		data string
		want error
	}{
		{"tampered", signed(v, map[string]string{"auth_date": fresh, "user": user}) + "&x=1", ErrBadSignature},
		{"other bot", signed(other, map[string]string{"auth_date": fresh, "user": user}), ErrBadSignature},
		{"no hash", "auth_date=" + fresh, ErrInvalidInitData},
		{"stale", signed(v, map[string]string{"auth_date": strconv.FormatInt(now.Add(-2*time.Hour).Unix(), 10), "user": user}), ErrExpired},
		{"future", signed(v, map[string]string{"auth_date": strconv.FormatInt(now.Add(10*time.Minute).Unix(), 10), "user": user}), ErrExpired},
		{"no user", signed(v, map[string]string{"auth_date": fresh}), ErrInvalidInitData},
	}
	for _, tc := range cases {
		if _, err := v.Verify(tc.data); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v; want %v", tc.name, err, tc.want)
		}
	}
}

// Sign must not depend on parameter order.
func TestSignOrderIndependent(t *testing.T) {
	v := NewVerifier(botToken, 0)
	a := url.Values{"b": {"2"}, "a": {"1"}}
	b := url.Values{"a": {"1"}, "b": {"2"}}
	if v.Sign(a) != v.Sign(b) {
		t.Fatalf("signature depends on order")
	}
	if v.maxAge != time.Hour {
		t.Fatalf("default max age = %v", v.maxAge)
	}
}
