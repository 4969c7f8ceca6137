package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"bookshelf_tgbot/config"
	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"

	"github.com/redis/go-redis/v9"
)

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(cfg *config.Config, redisClient *redis.Client) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (r *RedisSession) createSessionKey(chatID int64) string {
	return fmt.Sprintf("chatID:%d:session", chatID)
}

func (r *RedisSession) SetSession(ctx context.Context, chatID int64, session model.Session) error {
	op := "RedisSession.SetSession"
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("start SetSession", slog.String("rqID", rqID), slog.Any("session", session))

	sessionJson, err := json.Marshal(session)
	if err != nil {
		slog.Error("can't marshall session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.Any("session", session))
		return errors.New("can't marshall session")
	}

	_, err = r.redis.Set(ctx, r.createSessionKey(chatID), sessionJson, r.cfg.SessionExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.Any("session", session))
		return err
	}

	return nil
}

// GetSession returns the zero Session when nothing is stored for the chat.
func (r *RedisSession) GetSession(ctx context.Context, chatID int64) (model.Session, error) {
	op := "RedisSession.GetSession"
	rqID := utils.GetRequestIDFromCtx(ctx)
	key := r.createSessionKey(chatID)

	res, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, nil
		}

		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("key", key))
		return model.Session{}, err
	}

	session := model.Session{}

	err = json.Unmarshal([]byte(res), &session)
	if err != nil {
		slog.Error("can't unmarshall session", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.String("resultFromRedis", res))
		return model.Session{}, errors.New("can't unmarshall session")
	}

	return session, nil
}

func (r *RedisSession) ClearSession(ctx context.Context, chatID int64) error {
	op := "RedisSession.ClearSession"
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := r.redis.Del(ctx, r.createSessionKey(chatID)).Err(); err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()), slog.Int64("chatID", chatID))
		return err
	}
	return nil
}
