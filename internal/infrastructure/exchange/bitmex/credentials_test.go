package bitmex

import (
	"encoding/json"
	"net/url"
	"testing"
)

var testCreds = NewCredentials(
	"LAqUlngMIQkIUjXMUreyu3qn",
	"chNOOS4KvNXR_Xq4k4c9qsfoKWvnDecLATCRlcBwyKDYnWgO",
)

func TestSignGet(t *testing.T) {
	sig := testCreds.sign("GET", "/api/v1/instrument", "", 1518064236, "")
	want := "c7682d435d0cfe87c16098df34ef2eb5a549d4c5a3c2b1f0f77b8af73423bf00"
	if sig.signature != want {
		t.Errorf("signature = %s, want %s", sig.signature, want)
	}
}

func TestSignGetWithQuery(t *testing.T) {
	query := url.Values{"filter": []string{`{"symbol": "XBTM15"}`}}.Encode()
	sig := testCreds.sign("GET", "/api/v1/instrument", query, 1518064237, "")
	want := "e2f422547eecb5b3cb29ade2127e21b858b235b386bfa45e1c1756eb3383919f"
	if sig.signature != want {
		t.Errorf("signature = %s, want %s", sig.signature, want)
	}
}

func TestSignPost(t *testing.T) {
	body := `{"symbol":"XBTM15","price":219.0,"clOrdID":"mm_bitmex_1a/oemUeQ4CAJZgP3fjHsA","orderQty":98}`
	sig := testCreds.sign("POST", "/api/v1/order", "", 1518064238, body)
	want := "1749cd2ccae4aa49048ae09f0b95110cee706e0944e6a14ad0b3a8cb45bd336b"
	if sig.signature != want {
		t.Errorf("signature = %s, want %s", sig.signature, want)
	}
}

func TestSignatureTupleEncoding(t *testing.T) {
	sig := Signature{
		apiKey:    "api_key123",
		signature: "signature0x42",
		expires:   42,
	}
	b, err := json.Marshal(sig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `["api_key123",42,"signature0x42"]`
	if string(b) != want {
		t.Errorf("encoded = %s, want %s", b, want)
	}
}

func TestSignInputSensitivity(t *testing.T) {
	base := testCreds.sign("GET", "/api/v1/instrument", "", 1518064236, "").signature

	variants := map[string]Signature{
		"secret":  NewCredentials(testCreds.APIKey, "other").sign("GET", "/api/v1/instrument", "", 1518064236, ""),
		"method":  testCreds.sign("POST", "/api/v1/instrument", "", 1518064236, ""),
		"path":    testCreds.sign("GET", "/api/v1/order", "", 1518064236, ""),
		"query":   testCreds.sign("GET", "/api/v1/instrument", "a=1", 1518064236, ""),
		"expires": testCreds.sign("GET", "/api/v1/instrument", "", 1518064237, ""),
		"body":    testCreds.sign("GET", "/api/v1/instrument", "", 1518064236, "{}"),
	}
	for name, sig := range variants {
		if sig.signature == base {
			t.Errorf("changing %s did not change the signature", name)
		}
	}
}

func TestCredentialsStringHidesSecret(t *testing.T) {
	s := testCreds.String()
	if s != "Credentials{api_key:LAqUlngMIQkIUjXMUreyu3qn}" {
		t.Errorf("unexpected String(): %s", s)
	}
}
