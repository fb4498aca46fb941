package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/capture"
	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/organizer"
	"github.com/backpackerjohn/braindump/internal/repository"
)

const (
	keyringService = "braindump"
	keyringAPIKey  = "gemini-api-key"
)

// runtime bundles everything a command needs: config, database-backed
// services and the local user identity.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *repository.Store
	org     *organizer.Organizer
	capture *capture.Service
	userID  uuid.UUID
	aiOK    bool
}

// newRuntime loads config, opens the database and wires the services.
// The AI key falls back to the system keyring when the environment does
// not provide one.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		if key, err := keyring.Get(keyringService, keyringAPIKey); err == nil {
			cfg.AI.APIKey = key
		}
	}

	log := zap.NewNop()
	if os.Getenv("BRAINDUMP_DEBUG") != "" {
		log, _ = zap.NewDevelopment()
	}

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	store := repository.NewStore(db)

	userID, err := localUserID()
	if err != nil {
		return nil, err
	}

	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
	})
	var client *ai.Client
	if err == nil {
		client = ai.NewClient(provider, cfg.AI, log)
	}
	// A missing API key only blocks AI-backed commands; listing, lifecycle
	// and category tagging still work against the store alone.

	rt := &runtime{
		cfg:    cfg,
		log:    log,
		store:  store,
		userID: userID,
		aiOK:   client != nil,
	}
	if client != nil {
		rt.org = organizer.New(store, client, cfg.Organizer, log)
		rt.capture = capture.NewService(store, client, cfg.Organizer, log)
	} else {
		rt.org = organizer.New(store, nil, cfg.Organizer, log)
		rt.capture = capture.NewService(store, nil, cfg.Organizer, log)
	}
	return rt, nil
}

// requireAI fails with a setup hint when no AI key was configured.
func (r *runtime) requireAI() error {
	if !r.aiOK {
		return fmt.Errorf("no Gemini API key configured. Run 'braindump setup' or set GEMINI_API_KEY")
	}
	return nil
}

// localUserID returns the stable local identity, creating one on first use.
func localUserID() (uuid.UUID, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".braindump")
	path := filepath.Join(dir, "user_id")

	if data, err := os.ReadFile(path); err == nil {
		id, err := uuid.Parse(strings.TrimSpace(string(data)))
		if err == nil {
			return id, nil
		}
	}

	id := uuid.New()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return uuid.Nil, fmt.Errorf("could not create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id.String()+"\n"), 0o600); err != nil {
		return uuid.Nil, fmt.Errorf("could not persist user id: %w", err)
	}
	return id, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func shortID(id uuid.UUID) string {
	return id.String()[:8] + "..."
}
