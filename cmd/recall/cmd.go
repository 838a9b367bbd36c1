package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/store/filestore"
)

var (
	log *logrus.Logger

	cfgFile     string
	showVersion bool
	dumpConfig  bool
	generateKey bool
	tokenUserID int64
)

var cmd = &cobra.Command{
	Use:   "recall",
	Short: "recall stores per-user documents and memories and blends them into LLM chat prompts",
	Run:   func(cmd *cobra.Command, args []string) { run() },
}

var dumpJsonSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for recall's configuration file",
	Example: "recall json-schema > recall_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(schema))
		return nil
	},
}

var importHistoryCmd = &cobra.Command{
	Use:   "import-history",
	Short: "Migrates pre-session chat history files into the per-session layout",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Error configuring recall: %s", err)
		}
		imported, err := filestore.ImportLegacyHistories(cfg.Store.DataDir)
		if err != nil {
			log.Fatalf("Failed to import chat histories: %v", err)
		}
		fmt.Printf("Imported %d chat history file(s).\n", imported)
	},
}

func init() {
	cmd.AddCommand(dumpJsonSchemaCmd)
	cmd.AddCommand(importHistoryCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")
	cmd.PersistentFlags().
		BoolVarP(&generateKey, "generate-token", "g", false, "generate a new JWT token")
	cmd.PersistentFlags().
		Int64Var(&tokenUserID, "user", 0, "user id to embed in a generated token")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
