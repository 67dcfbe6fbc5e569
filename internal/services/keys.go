package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"crmneon/internal/models"
	"crmneon/internal/secrets"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"
)

const (
	KeyID           = "default-key-1"
	SigningAlg      = "RS256"
	TokenTTLSeconds = 3600
)

// KeySet is the RSA signing key pair, loaded once at start-up
type KeySet struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// ParseKeySet reads a PKCS#8 (or PKCS#1) private key and an SPKI public key
func ParseKeySet(privatePEM, publicPEM []byte) (*KeySet, error) {
	private, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	if !private.PublicKey.Equal(public) {
		return nil, fmt.Errorf("public key does not match private key")
	}
	return &KeySet{Private: private, Public: public}, nil
}

// LoadKeySet fetches both PEMs from the secret store
func LoadKeySet(ctx context.Context, store secrets.Store, privateName, publicName string) (*KeySet, error) {
	var privatePEM, publicPEM string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := store.Get(gctx, privateName)
		privatePEM = v
		return err
	})
	g.Go(func() error {
		v, err := store.Get(gctx, publicName)
		publicPEM = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load signing keys: %w", err)
	}
	return ParseKeySet([]byte(privatePEM), []byte(publicPEM))
}

// JWKS renders the public key as a JSON Web Key Set
func (k *KeySet) JWKS() models.JWKSet {
	return models.JWKSet{Keys: []models.JWK{{
		Kty: "RSA",
		N:   base64.RawURLEncoding.EncodeToString(k.Public.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(k.Public.E)).Bytes()),
		Kid: KeyID,
		Alg: SigningAlg,
		Use: "sig",
	}}}
}

// Keyfunc verifies tokens against the local key set
func (k *KeySet) Keyfunc() (jwt.Keyfunc, error) {
	raw, err := json.Marshal(k.JWKS())
	if err != nil {
		return nil, err
	}
	jwks, err := keyfunc.NewJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to build key set: %w", err)
	}
	return jwks.Keyfunc, nil
}
