package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"crmneon/internal/bootstrap"
	"crmneon/internal/config"
	"crmneon/internal/logger"
	"crmneon/internal/secrets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const setupTimeout = 2 * time.Minute

var (
	stage      string
	force      bool
	outputKeys bool
)

// rootCmd provisions the signing keypair and the admin API key for a stage
var rootCmd = &cobra.Command{
	Use:   "initialsetup",
	Short: "Generate and store the JWT keypair and API key for a stage",
	Long: `Generates and stores the following secrets in the configured secret store
(AWS SSM Parameter Store by default):
• JWT Public Key (RSA 2048-bit, PEM format)
• JWT Private Key (RSA 2048-bit, PKCS#8 format)
• API Key (32-byte random, base64 encoded)

Secret names carry the suffix -prod for the prod stage and -dev for every
other stage. Existing secrets are kept unless --force is given.`,
	Example: `  initialsetup --stage dev
  initialsetup --stage prod --force
  initialsetup --stage dev --output-keys`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&stage, "stage", "s", "dev", "Deployment stage")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "Force overwrite existing secrets")
	rootCmd.Flags().BoolVarP(&outputKeys, "output-keys", "o", false, "Output generated keys to files (for verification)")
}

func runSetup(parent context.Context) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cfg.App.Stage = stage

	zlog, err := logger.New(cfg.App.Env, cfg.App.LogLevel, "initialsetup")
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithTimeout(parent, setupTimeout)
	defer cancel()

	var store secrets.Store
	if cfg.Secrets.Backend == "env" {
		store = secrets.NewEnvStore()
	} else {
		zlog.Info("using SSM parameter store", zap.String("region", cfg.Secrets.AWSRegion))
		store, err = secrets.NewSSMStore(ctx, cfg.Secrets.AWSRegion)
		if err != nil {
			return err
		}
	}

	names := bootstrap.Names{
		PublicKey:  cfg.PublicKeyParameter(),
		PrivateKey: cfg.PrivateKeyParameter(),
		APIKey:     cfg.APIKeyParameter(),
	}
	result, err := bootstrap.NewSetup(store, names, bootstrap.Options{
		Stage:      stage,
		Force:      force,
		OutputKeys: outputKeys,
	}, zlog).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

func printSummary(result *bootstrap.Result) {
	fmt.Println()
	fmt.Println("Initial setup completed successfully!")
	fmt.Println()
	fmt.Println("Secrets:")
	fmt.Printf("   • JWT Public Key: %s%s\n", result.PublicKey, storedNote(result.JWTKeysStored))
	fmt.Printf("   • JWT Private Key: %s%s\n", result.PrivateKey, storedNote(result.JWTKeysStored))
	fmt.Printf("   • API Key: %s%s\n", result.APIKey, storedNote(result.APIKeyStored))
	if result.OutputDir != "" {
		fmt.Printf("\nKeys written to: %s\n", result.OutputDir)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("   1. Deploy the server for this stage")
	fmt.Println("   2. Test the authentication endpoints")
	fmt.Println("   3. If you used --output-keys, delete the generated-keys directory")
}

func storedNote(stored bool) string {
	if stored {
		return ""
	}
	return " (kept existing)"
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		os.Exit(1)
	}
}
