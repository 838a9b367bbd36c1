package models

import (
	"github.com/recallio/recall/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Config     *config.Config
	Embeddings EmbeddingsClient
	Catalog    ModelCatalog
	Assistant  Assistant
}
