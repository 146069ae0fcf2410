package bitmex

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Credentials hold an API key pair for the authenticated realtime API.
type Credentials struct {
	APIKey string
	Secret string
}

func NewCredentials(apiKey, secret string) Credentials {
	return Credentials{APIKey: apiKey, Secret: secret}
}

// String never exposes the secret.
func (c Credentials) String() string {
	return "Credentials{api_key:" + c.APIKey + "}"
}

// Signature proves possession of the API secret for a single request.
type Signature struct {
	apiKey    string
	signature string
	expires   int64
}

// MarshalJSON encodes the signature as the positional 3-tuple the wire
// protocol expects: ["<api_key>",<expires>,"<signature>"].
func (s Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{s.apiKey, s.expires, s.signature})
}

// sign computes the request signature over method+path(+"?"+query)+expires+body
// with no separators. The digest is HMAC-SHA256 keyed by the secret,
// hex-encoded lowercase.
func (c Credentials) sign(method, path, rawQuery string, expires int64, body string) Signature {
	msg := method + path
	if rawQuery != "" {
		msg += "?" + rawQuery
	}
	msg += strconv.FormatInt(expires, 10) + body

	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(msg))

	return Signature{
		apiKey:    c.APIKey,
		signature: hex.EncodeToString(mac.Sum(nil)),
		expires:   expires,
	}
}
