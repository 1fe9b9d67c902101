package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/blackcoderx/specport/pkg/ingest"
	"github.com/blackcoderx/specport/pkg/logger"
	"github.com/blackcoderx/specport/pkg/postman"
	"github.com/blackcoderx/specport/pkg/report"
)

// version is injected at build time via -ldflags "-X main.version=v1.2.3".
var version = "dev"

var (
	cfgFile   string
	specFile  string
	exportDir string
	noExport  bool
	forceSync bool
	copyLink  bool
	verbose   bool

	rootCmd = &cobra.Command{
		Use:     "specport",
		Version: version,
		Short:   "Ingest OpenAPI specs into Postman Spec Hub",
		Long: `Specport onboards an OpenAPI specification onto the Postman API platform:
it creates or reuses a workspace, uploads the spec, generates a collection,
provisions Dev/QA/UAT/Prod environments with a token-caching auth script,
and exports the artifacts for Newman runs.`,
		Example: `  specport --spec resources/payment-refund-api.yaml
  specport --spec spec.yaml --export ./exports/
  WORKSPACE_ID=abc123 specport --spec spec.yaml --sync`,
		Run: func(cmd *cobra.Command, args []string) {
			runIngestion()
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .specport/config.json)")

	rootCmd.Flags().StringVar(&specFile, "spec", "", "Path to OpenAPI spec file (YAML or JSON). Defaults to SPEC_PATH env var.")
	rootCmd.Flags().StringVar(&exportDir, "export", "./exports", "Export collection and environments to directory")
	rootCmd.Flags().Lookup("export").NoOptDefVal = "./exports"
	rootCmd.Flags().BoolVar(&noExport, "no-export", false, "Skip exporting collection and environments")
	rootCmd.Flags().BoolVar(&forceSync, "sync", false, "Force sync of linked collections")
	rootCmd.Flags().BoolVar(&copyLink, "copy-link", false, "Copy the workspace URL to the clipboard on success")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".specport")
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	_ = viper.BindEnv("postman_api_key", "POSTMAN_API_KEY")
	_ = viper.BindEnv("workspace_id", "WORKSPACE_ID")
	_ = viper.BindEnv("spec_path", "SPEC_PATH")
	_ = viper.BindEnv("token_url", "TOKEN_URL")
	_ = viper.BindEnv("client_id", "CLIENT_ID")
	_ = viper.BindEnv("client_secret", "CLIENT_SECRET")
	_ = viper.ReadInConfig()
}

func runIngestion() {
	// Load .env file if it exists (optional, warn if malformed)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
	}

	if verbose {
		_ = os.Setenv("LOG_LEVEL", "debug")
	}
	log, err := logger.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	apiKey := viper.GetString("postman_api_key")
	if apiKey == "" {
		log.Error("POSTMAN_API_KEY environment variable is required")
		log.Error("Set it in your .env file or export it in your shell")
		os.Exit(1)
	}

	if specFile == "" {
		specFile = viper.GetString("spec_path")
	}
	if specFile == "" {
		log.Error("No spec file provided")
		log.Error("Use --spec argument or set SPEC_PATH in your .env file")
		os.Exit(1)
	}
	if _, err := os.Stat(specFile); err != nil {
		log.Error("Spec file not found", zap.String("path", specFile))
		os.Exit(1)
	}

	client := postman.NewClient(postman.ClientConfig{
		APIKey: apiKey,
		Logger: log,
	})

	pipeline := ingest.New(client, log, ingest.Options{
		SpecPath:    specFile,
		WorkspaceID: viper.GetString("workspace_id"),
		ExportDir:   exportDir,
		NoExport:    noExport,
		ForceSync:   forceSync,
	})

	result, err := pipeline.Run(context.Background())
	if err != nil {
		log.Error("Ingestion failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Print(report.Summary(result))
	if copyLink {
		report.CopyWorkspaceLink(result.WorkspaceID)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
