package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/pkg/assistant"
	"github.com/recallio/recall/pkg/auth"
	"github.com/recallio/recall/pkg/llms"
	"github.com/recallio/recall/pkg/models"
	"github.com/recallio/recall/pkg/server"
	"github.com/recallio/recall/pkg/store"
	"github.com/recallio/recall/pkg/store/filestore"
)

// run is the entrypoint for the recall server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring recall: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting recall server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV: the
// embeddings client, the model catalog, the per-user stores, and the
// assistant service wired over them.
func NewAppState(cfg *config.Config) *models.AppState {
	setupSignalHandler()

	embedder, err := llms.NewOpenAIEmbeddingsClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %v", err)
	}

	catalog, err := llms.NewCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to build model catalog: %v", err)
	}
	if specs := catalog.ListAvailable(); len(specs) == 0 {
		log.Warn("no chat providers are configured; chat requests will fail")
	} else {
		log.Infof("%d chat model(s) available", len(specs))
	}

	snapshots := filestore.NewSnapshotStore(cfg.Store.DataDir)
	manager, err := store.NewManager(cfg, embedder, snapshots)
	if err != nil {
		log.Fatalf("Failed to create store manager: %v", err)
	}
	histories := filestore.NewChatHistoryStore(cfg.Store.DataDir)

	appState := &models.AppState{
		Config:     cfg,
		Embeddings: embedder,
		Catalog:    catalog,
		Assistant:  assistant.NewService(cfg, embedder, manager, histories, catalog),
	}

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		dumpConfigToStdout(cfg)
		os.Exit(0)
	}
	if generateKey {
		if tokenUserID <= 0 {
			log.Fatal("--user must be set to generate a token")
		}
		fmt.Println(auth.GenerateJWT(cfg, tokenUserID))
		os.Exit(0)
	}
}

// dumpConfigToStdout prints the effective config, with secrets omitted by
// their yaml tags.
func dumpConfigToStdout(cfg *config.Config) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		log.Fatalf("Failed to dump config: %v", err)
	}
	fmt.Print(string(out))
}

// setupSignalHandler exits on SIGINT or SIGTERM. Every store mutation is
// flushed at its commit point, so shutdown needs no extra bookkeeping beyond
// stopping accepts.
func setupSignalHandler() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("Shutting down")
		os.Exit(0)
	}()
}
