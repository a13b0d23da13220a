package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInitData = errors.New("invalid init data")
	ErrBadSignature    = errors.New("init data signature mismatch")
	ErrExpired         = errors.New("init data expired")
)

// maxClockSkew tolerates auth_date slightly in the future.
const maxClockSkew = 5 * time.Minute

// Verifier checks Mini App init data signed by one bot.
type Verifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewVerifier derives the signing key from botToken. maxAge <= 0 means one
// hour.
func NewVerifier(botToken string, maxAge time.Duration) *Verifier {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Verifier{secret: secretKey(botToken), maxAge: maxAge, now: time.Now}
}

// secret_key = HMAC_SHA256(key="WebAppData", msg=bot_token)
func secretKey(botToken string) []byte {
	h := hmac.New(sha256.New, []byte("WebAppData"))
	h.Write([]byte(botToken))
	return h.Sum(nil)
}

// Sign returns the hash Telegram would attach to values. Used by dev
// tooling to mint init data.
func (v *Verifier) Sign(values url.Values) string {
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(dataCheckString(values)))
	return hex.EncodeToString(h.Sum(nil))
}

func dataCheckString(values url.Values) string {
	parts := make([]string, 0, len(values))
	for k, vs := range values {
		if k == "hash" {
			continue
		}
		parts = append(parts, k+"="+strings.Join(vs, ""))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\n")
}

// Verify validates the signature and freshness of initData and returns the
// user it carries.
func (v *Verifier) Verify(initData string) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidInitData
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, ErrInvalidInitData
	}
	calculated, _ := hex.DecodeString(v.Sign(values))
	if !hmac.Equal(calculated, provided) {
		return nil, ErrBadSignature
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrInvalidInitData
	}
	age := v.now().Sub(time.Unix(authDate, 0))
	if age > v.maxAge || age < -maxClockSkew {
		return nil, ErrExpired
	}

	return parseUser(values)
}

type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func parseUser(values url.Values) (*WebAppUser, error) {
	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return nil, ErrInvalidInitData
	}
	if user.ID == 0 {
		return nil, ErrInvalidInitData
	}
	return &user, nil
}
