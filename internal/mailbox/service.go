package mailbox

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/docudeskhq/docudesk-backend/internal/settings"
	"github.com/docudeskhq/docudesk-backend/pkg/config"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/gmail"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

const (
	tokenSettingKey = "mailbox.google_token"
	stateTTL        = 10 * time.Minute
)

// settingsStore is the slice of the settings service the mailbox needs for
// token persistence.
type settingsStore interface {
	Get(ctx context.Context, key string) (*settings.SettingDTO, error)
	Set(ctx context.Context, key string, value dbtypes.JSONMap, updatedBy *uuid.UUID) (*settings.SettingDTO, error)
	Delete(ctx context.Context, key string) error
}

// stateCache holds short-lived OAuth state nonces.
type stateCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CacheKey(name string) string
}

// mailClient is the slice of the gmail client the service calls.
type mailClient interface {
	ListInbox(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error)
	Get(ctx context.Context, id string) (*gmail.Message, error)
	MarkRead(ctx context.Context, id string) error
	Trash(ctx context.Context, id string) error
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Service exposes the shared office mailbox.
type Service interface {
	ConnectURL(ctx context.Context) (string, error)
	CompleteConnect(ctx context.Context, state, code string, actorID *uuid.UUID) error
	Connected(ctx context.Context) bool
	Disconnect(ctx context.Context) error

	ListInbox(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
	MarkRead(ctx context.Context, id string) error
	Trash(ctx context.Context, id string) error
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type service struct {
	cfg       config.GmailConfig
	store     settingsStore
	states    stateCache
	newClient func(ctx context.Context, cfg config.GmailConfig, token *oauth2.Token) (mailClient, error)
}

// NewService constructs the mailbox service. Operations fail with a
// dependency error until Google credentials are configured and an admin has
// completed the OAuth flow.
func NewService(cfg config.GmailConfig, store settingsStore, states stateCache) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if states == nil {
		return nil, fmt.Errorf("state cache required")
	}
	return &service{
		cfg:    cfg,
		store:  store,
		states: states,
		newClient: func(ctx context.Context, cfg config.GmailConfig, token *oauth2.Token) (mailClient, error) {
			return gmail.NewClient(ctx, cfg, token)
		},
	}, nil
}

func (s *service) ConnectURL(ctx context.Context) (string, error) {
	if !s.cfg.Enabled() {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "mailbox integration is not configured")
	}

	state, err := generateState()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate oauth state")
	}
	if err := s.states.Set(ctx, s.stateKey(state), "1", stateTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store oauth state")
	}

	url, err := gmail.AuthURL(s.cfg, state)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build auth url")
	}
	return url, nil
}

func (s *service) CompleteConnect(ctx context.Context, state, code string, actorID *uuid.UUID) error {
	if !s.cfg.Enabled() {
		return pkgerrors.New(pkgerrors.CodeDependency, "mailbox integration is not configured")
	}
	if state == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "state and code are required")
	}

	if _, err := s.states.Get(ctx, s.stateKey(state)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown or expired oauth state")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check oauth state")
	}
	// One-shot: a replayed callback must not pass.
	if err := s.states.Del(ctx, s.stateKey(state)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume oauth state")
	}

	token, err := gmail.ExchangeCode(ctx, s.cfg, code)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "exchange oauth code")
	}
	if err := s.saveToken(ctx, token, actorID); err != nil {
		return err
	}
	return nil
}

func (s *service) Connected(ctx context.Context) bool {
	token, err := s.loadToken(ctx)
	return err == nil && token != nil
}

func (s *service) Disconnect(ctx context.Context) error {
	if err := s.store.Delete(ctx, tokenSettingKey); err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		return err
	}
	return nil
}

func (s *service) ListInbox(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := client.ListInbox(ctx, query, maxResults)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inbox")
	}
	return messages, nil
}

func (s *service) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message id is required")
	}
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	message, err := client.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	return message, nil
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message id is required")
	}
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	if err := client.MarkRead(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark message read")
	}
	return nil
}

func (s *service) Trash(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message id is required")
	}
	client, err := s.client(ctx)
	if err != nil {
		return err
	}
	if err := client.Trash(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "trash message")
	}
	return nil
}

func (s *service) Send(ctx context.Context, to, subject, body string) (string, error) {
	if to == "" || subject == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "recipient and subject are required")
	}
	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	id, err := client.Send(ctx, to, subject, body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send message")
	}
	return id, nil
}

func (s *service) client(ctx context.Context) (mailClient, error) {
	if !s.cfg.Enabled() {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mailbox integration is not configured")
	}
	token, err := s.loadToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "mailbox is not connected")
	}
	client, err := s.newClient(ctx, s.cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail client")
	}
	return client, nil
}

func (s *service) saveToken(ctx context.Context, token *oauth2.Token, actorID *uuid.UUID) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode token")
	}
	var value dbtypes.JSONMap
	if err := json.Unmarshal(raw, &value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode token")
	}
	if _, err := s.store.Set(ctx, tokenSettingKey, value, actorID); err != nil {
		return err
	}
	return nil
}

// loadToken returns nil-nil when no token has been stored yet.
func (s *service) loadToken(ctx context.Context) (*oauth2.Token, error) {
	setting, err := s.store.Get(ctx, tokenSettingKey)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}

	raw, err := json.Marshal(setting.Value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode token")
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode token")
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return nil, nil
	}
	return &token, nil
}

func (s *service) stateKey(state string) string {
	return s.states.CacheKey("mailbox:state:" + state)
}

func generateState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
