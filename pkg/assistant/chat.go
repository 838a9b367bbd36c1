package assistant

import (
	"context"
	"strings"

	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/models"
	"github.com/recallio/recall/pkg/prompts"
	"github.com/recallio/recall/pkg/search"
)

// ChatTurn runs one conversation turn. The user message is persisted before
// the provider call, so a failed turn still shows up in the history; the
// assistant reply is persisted with the provider/model pair that produced
// it.
func (s *Service) ChatTurn(
	ctx context.Context,
	userID int64,
	req *models.ChatTurnRequest,
) (*models.ChatTurnResponse, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, models.NewBadRequestError("message cannot be empty")
	}
	sessionID := models.NormalizeSessionID(req.SessionID)

	// histories persist as whole snapshots: a concurrent turn on the same
	// session would overwrite this turn's appends
	lock := s.sessionLock(userID, sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.histories.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	spec, err := s.resolveModel(req, history)
	if err != nil {
		return nil, err
	}

	history.Messages = append(history.Messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: req.Message,
	})
	if err := s.histories.Save(ctx, userID, sessionID, history); err != nil {
		return nil, err
	}

	var contextItems []models.ContextItem
	if s.cfg.Retrieval.Enabled {
		contextItems, err = s.retrieveContext(ctx, userID, req.Message)
		if err != nil {
			return nil, err
		}
	}

	prompt, err := prompts.BuildTurnPrompt(req.Message, contextItems)
	if err != nil {
		return nil, err
	}

	client, err := s.catalog.Client(spec.Provider)
	if err != nil {
		return nil, err
	}

	// prior turns within the token budget, then the contextual prompt in
	// place of the raw user message
	outbound := s.trimToTokenBudget(history.Messages[:len(history.Messages)-1])
	outbound = append(outbound, models.ChatMessage{Role: models.RoleUser, Content: prompt})

	reply, err := client.Chat(ctx, outbound, spec.Model, s.cfg.LLM.Temperature)
	if err != nil {
		return nil, err
	}

	history.Messages = append(history.Messages, models.ChatMessage{
		Role:     models.RoleAssistant,
		Content:  reply,
		Provider: spec.Provider,
		Model:    spec.Model,
	})
	if err := s.histories.Save(ctx, userID, sessionID, history); err != nil {
		return nil, err
	}

	return &models.ChatTurnResponse{
		SessionID: sessionID,
		Reply:     reply,
		Session:   history.Session,
	}, nil
}

// resolveModel picks the provider/model pair for this turn and pins it on
// the session. An explicit override requires both fields and must name a
// cataloged model; a previously pinned pair that has since disappeared from
// the catalog falls back to the default rather than failing the turn.
func (s *Service) resolveModel(
	req *models.ChatTurnRequest,
	history *models.ChatHistory,
) (models.ModelSpec, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	model := strings.TrimSpace(req.Model)

	switch {
	case provider != "" && model != "":
		spec, ok := s.catalog.Lookup(provider, model)
		if !ok {
			return models.ModelSpec{}, models.NewBadRequestError("selected model is not available")
		}
		history.Session = models.SessionMeta{Provider: spec.Provider, Model: spec.Model}
		return spec, nil

	case provider != "" || model != "":
		return models.ModelSpec{}, models.NewBadRequestError("provider and model must be supplied together")
	}

	if history.Session.Provider != "" && history.Session.Model != "" {
		if spec, ok := s.catalog.Lookup(history.Session.Provider, history.Session.Model); ok {
			return spec, nil
		}
		log.Warnf("pinned model %s/%s is no longer available, falling back to default",
			history.Session.Provider, history.Session.Model)
	}

	spec, ok := s.catalog.ResolveDefault()
	if !ok {
		return models.ModelSpec{}, models.NewConfigurationError("no chat providers are configured", nil)
	}
	history.Session = models.SessionMeta{Provider: spec.Provider, Model: spec.Model}
	return spec, nil
}

// retrieveContext ranks both of the user's stores against the message and
// blends the results, memory first.
func (s *Service) retrieveContext(
	ctx context.Context,
	userID int64,
	message string,
) ([]models.ContextItem, error) {
	queryEmbedding, err := s.embedOne(ctx, message)
	if err != nil {
		return nil, err
	}

	sets := make([]models.ResultSet, 0, 2)
	for _, source := range []struct {
		kind  models.StoreKind
		label string
	}{
		{models.MemoryStoreKind, memoryContextLabel},
		{models.DocumentStoreKind, documentsContextLabel},
	} {
		store, err := s.stores.GetStore(ctx, userID, source.kind)
		if err != nil {
			return nil, err
		}
		records, err := store.All(ctx)
		if err != nil {
			return nil, err
		}
		ranked, err := search.Rank(queryEmbedding, records, s.cfg.Retrieval.TopK)
		if err != nil {
			return nil, err
		}
		sets = append(sets, models.ResultSet{Label: source.label, Results: ranked})
	}

	return search.Blend(sets, s.cfg.Retrieval.MaxContextItems), nil
}

// trimToTokenBudget keeps the most recent messages whose contents fit the
// configured budget, preserving chronological order. Without a tokenizer it
// approximates with word counts.
func (s *Service) trimToTokenBudget(messages []models.ChatMessage) []models.ChatMessage {
	budget := s.cfg.Retrieval.HistoryTokenBudget
	if budget <= 0 {
		return append([]models.ChatMessage(nil), messages...)
	}

	var kept []models.ChatMessage
	total := 0
	for i := len(messages) - 1; i >= 0; i-- {
		tokens := s.tokenCount(messages[i].Content)
		if total+tokens > budget {
			break
		}
		total += tokens
		kept = append(kept, messages[i])
	}

	internal.ReverseSlice(kept)
	return kept
}

func (s *Service) tokenCount(text string) int {
	if s.tkm == nil {
		return len(strings.Fields(text))
	}
	return len(s.tkm.Encode(text, nil, nil))
}
