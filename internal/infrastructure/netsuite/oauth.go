package netsuite

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// oauthSigner produces OAuth 1.0a Authorization headers signed with
// HMAC-SHA256, the scheme SuiteTalk REST requires for token-based
// authentication. Each request gets a fresh nonce and timestamp; signatures
// are never reused.
type oauthSigner struct {
	consumerKey    string
	consumerSecret string
	tokenID        string
	tokenSecret    string
	realm          string

	// nonce and now are injectable for deterministic tests
	nonce func() (string, error)
	now   func() time.Time
}

func newOAuthSigner(cfg *Config) *oauthSigner {
	return &oauthSigner{
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		tokenID:        cfg.TokenID,
		tokenSecret:    cfg.TokenSecret,
		realm:          cfg.Realm(),
		nonce:          randomNonce,
		now:            time.Now,
	}
}

// Authorization builds the OAuth header for a request. Query parameters of
// the URL participate in the signature base string.
func (s *oauthSigner) Authorization(method string, requestURL *url.URL) (string, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", fmt.Errorf("netsuite: generate nonce: %w", err)
	}
	timestamp := strconv.FormatInt(s.now().Unix(), 10)

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": "HMAC-SHA256",
		"oauth_timestamp":        timestamp,
		"oauth_token":            s.tokenID,
		"oauth_version":          "1.0",
	}

	signature := s.sign(method, requestURL, oauthParams)

	// Header parameters in canonical order, realm first
	var b strings.Builder
	b.WriteString(`OAuth realm="`)
	b.WriteString(percentEncode(s.realm))
	b.WriteString(`"`)
	keys := sortedKeys(oauthParams)
	for _, k := range keys {
		b.WriteString(", ")
		b.WriteString(percentEncode(k))
		b.WriteString(`="`)
		b.WriteString(percentEncode(oauthParams[k]))
		b.WriteString(`"`)
	}
	b.WriteString(`, oauth_signature="`)
	b.WriteString(percentEncode(signature))
	b.WriteString(`"`)
	return b.String(), nil
}

// sign computes the HMAC-SHA256 signature over the normalized base string.
func (s *oauthSigner) sign(method string, requestURL *url.URL, oauthParams map[string]string) string {
	// Collect protocol params plus request query params
	params := make([][2]string, 0, len(oauthParams)+8)
	for k, v := range oauthParams {
		params = append(params, [2]string{percentEncode(k), percentEncode(v)})
	}
	for k, vs := range requestURL.Query() {
		for _, v := range vs {
			params = append(params, [2]string{percentEncode(k), percentEncode(v)})
		}
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i][0] != params[j][0] {
			return params[i][0] < params[j][0]
		}
		return params[i][1] < params[j][1]
	})

	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = p[0] + "=" + p[1]
	}

	baseURL := requestURL.Scheme + "://" + strings.ToLower(requestURL.Host) + requestURL.EscapedPath()
	base := strings.ToUpper(method) +
		"&" + percentEncode(baseURL) +
		"&" + percentEncode(strings.Join(pairs, "&"))

	key := percentEncode(s.consumerSecret) + "&" + percentEncode(s.tokenSecret)
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode applies RFC 3986 encoding with the unreserved set required
// by OAuth 1.0a. url.QueryEscape is not equivalent: it encodes space as '+'
// and leaves characters the signature base string must escape.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
