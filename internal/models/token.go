package models

// Token issuance request. Ids may arrive as numbers or numeric strings.
type TokenRequest struct {
	UserID   any `json:"userId"`
	TenantID any `json:"tenantId"`
}

// Access Token Response
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// JWK is a single RSA public key in a key set
type JWK struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// OpenID discovery document
type OpenIDConfiguration struct {
	Issuer                           string   `json:"issuer"`
	JWKSURI                          string   `json:"jwks_uri"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
}
