package shelfstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"bookshelf_tgbot/internal/model"
	"bookshelf_tgbot/utils"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	redis *redis.Client
	slot  string
}

func NewRedisStore(redisClient *redis.Client, slot string) *RedisStore {
	return &RedisStore{redis: redisClient, slot: slot}
}

func (r *RedisStore) Load(ctx context.Context) ([]model.Book, error) {
	op := "RedisStore.Load"
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, r.slot).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			slog.Info("shelf slot is empty", slog.String("op", op), slog.String("slot", r.slot))
			return []model.Book{}, nil
		}
		slog.Error("failed on redis.Get", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", r.slot))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var books []model.Book
	if err = json.Unmarshal([]byte(res), &books); err != nil {
		slog.Error("can't unmarshall shelf payload", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", r.slot))
		return nil, fmt.Errorf("%s: %w: %s", op, ErrCorrupted, err)
	}

	if books == nil {
		books = []model.Book{}
	}

	return books, nil
}

func (r *RedisStore) Save(ctx context.Context, books []model.Book) error {
	op := "RedisStore.Save"
	rqID := utils.GetRequestIDFromCtx(ctx)

	payload, err := json.Marshal(books)
	if err != nil {
		slog.Error("can't marshall shelf", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = r.redis.Set(ctx, r.slot, payload, 0).Result(); err != nil {
		slog.Error("failed on redis.Set", slog.String("op", op), slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("slot", r.slot))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
