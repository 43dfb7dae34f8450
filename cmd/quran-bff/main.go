package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// envFile is read before the environment; a missing file is ignored
var envFile string

var rootCmd = &cobra.Command{
	Use:   "quran-bff",
	Short: "Backend-for-frontend for a Quran reading app",
	Long: `quran-bff signs browsers in with Quran Foundation, stores local accounts
and bookmarks, and proxies Quran content for the frontend.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "quran-bff version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd, migrateCmd, createUserCmd)
}

// @title           Quran BFF API
// @version         1.0
// @description     Backend-for-frontend for a Quran reading app: Quran Foundation sign-in, local accounts, bookmarks and a cached content proxy.

// @host      localhost:8000
// @BasePath  /api
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
