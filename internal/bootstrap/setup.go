package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"crmneon/internal/secrets"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	applicationTag = "crm-neon-v1"
	managedByTag   = "initialSetup"
	keysDirName    = "generated-keys"
)

// Names are the secret names for one stage
type Names struct {
	PublicKey  string
	PrivateKey string
	APIKey     string
}

// Options controls a setup run
type Options struct {
	Stage      string
	Force      bool
	OutputKeys bool
	// OutputRoot is the directory holding generated-keys; defaults to the
	// working directory
	OutputRoot string
}

// Result reports what a setup run did
type Result struct {
	Names
	JWTKeysStored bool
	APIKeyStored  bool
	// OutputDir is set when keys were written to disk
	OutputDir string
}

// Setup generates the signing keypair and the API key and stores them
type Setup struct {
	store secrets.Store
	names Names
	opts  Options
	log   *zap.Logger
}

func NewSetup(store secrets.Store, names Names, opts Options, log *zap.Logger) *Setup {
	return &Setup{store: store, names: names, opts: opts, log: log}
}

// Run generates fresh secrets and stores each group unless it already exists.
// Existing secrets are only replaced with Force.
func (s *Setup) Run(ctx context.Context) (*Result, error) {
	s.log.Info("starting initial setup",
		zap.String("stage", s.opts.Stage),
		zap.Bool("force", s.opts.Force),
	)

	s.log.Info("generating RSA key pair for JWT signing")
	publicPEM, privatePEM, err := GenerateJWTKeyPair()
	if err != nil {
		return nil, err
	}
	s.log.Info("generating API key")
	apiKey, err := GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	result := &Result{Names: s.names}

	result.JWTKeysStored, err = s.storeJWTKeys(ctx, publicPEM, privatePEM)
	if err != nil {
		return nil, err
	}
	result.APIKeyStored, err = s.storeAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if s.opts.OutputKeys {
		dir, err := s.writeKeyFiles(publicPEM, privatePEM, apiKey)
		if err != nil {
			s.log.Error("failed to write keys to files", zap.Error(err))
		} else {
			result.OutputDir = dir
			s.log.Warn("keys written to disk, delete them after verifying the setup", zap.String("dir", dir))
		}
	}

	s.log.Info("initial setup completed")
	return result, nil
}

func (s *Setup) storeJWTKeys(ctx context.Context, publicPEM, privatePEM string) (bool, error) {
	var publicExists, privateExists bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		publicExists, err = s.store.Exists(gctx, s.names.PublicKey)
		return err
	})
	g.Go(func() error {
		var err error
		privateExists, err = s.store.Exists(gctx, s.names.PrivateKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, fmt.Errorf("failed to check JWT keys: %w", err)
	}

	if (publicExists || privateExists) && !s.opts.Force {
		s.log.Warn("JWT keys already exist, use --force to overwrite", zap.String("stage", s.opts.Stage))
		return false, nil
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.put(gctx, s.names.PublicKey, publicPEM,
			fmt.Sprintf("JWT public key for CRM application (%s stage)", s.opts.Stage))
	})
	g.Go(func() error {
		return s.put(gctx, s.names.PrivateKey, privatePEM,
			fmt.Sprintf("JWT private key for CRM application (%s stage)", s.opts.Stage))
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Setup) storeAPIKey(ctx context.Context, apiKey string) (bool, error) {
	exists, err := s.store.Exists(ctx, s.names.APIKey)
	if err != nil {
		return false, fmt.Errorf("failed to check API key: %w", err)
	}
	if exists && !s.opts.Force {
		s.log.Warn("API key already exists, use --force to overwrite", zap.String("stage", s.opts.Stage))
		return false, nil
	}

	err = s.put(ctx, s.names.APIKey, apiKey,
		fmt.Sprintf("API key for CRM application authentication (%s stage)", s.opts.Stage))
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Setup) put(ctx context.Context, name, value, description string) error {
	err := s.store.Put(ctx, secrets.Secret{
		Name:        name,
		Value:       value,
		Description: description,
		Overwrite:   s.opts.Force,
		Tags: map[string]string{
			"Environment": s.opts.Stage,
			"Application": applicationTag,
			"ManagedBy":   managedByTag,
		},
	})
	if err != nil {
		return err
	}
	s.log.Info("stored parameter", zap.String("name", name))
	return nil
}

func (s *Setup) writeKeyFiles(publicPEM, privatePEM, apiKey string) (string, error) {
	root := s.opts.OutputRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}

	dir := filepath.Join(root, keysDirName, s.opts.Stage)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}

	files := map[string]string{
		"jwt-public.pem":  publicPEM,
		"jwt-private.pem": privatePEM,
		"api-key.txt":     apiKey,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			return "", err
		}
	}
	return dir, nil
}
