// Package cache хранит таблицу лидеров в Redis, чтобы не ходить в базу
// на каждый GET /api/scores.
//
// Для каждого режима — один хеш "scores:top:<mode>": поле = лимит,
// значение = JSON списка. Новый счёт удаляет хеш режима целиком и
// увеличивает счётчик поколения "scores:gen:<mode>". Запись в хеш идёт
// под WATCH счётчика, поэтому устаревший список после сброса не сохранится.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"serotonyl.ru/brain-trainer/internal/features/scores"
)

const (
	topKeyPrefix = "scores:top:"
	genKeyPrefix = "scores:gen:"
)

// RedisCache реализует scores.Cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration // Сколько живёт хеш режима
}

// NewRedisCache подключается к Redis и проверяет соединение.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis (%s): %w", addr, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// topKey возвращает ключ хеша режима.
func topKey(mode string) string {
	return topKeyPrefix + mode
}

// genKey возвращает ключ счётчика поколения режима.
func genKey(mode string) string {
	return genKeyPrefix + mode
}

// GetTop возвращает закешированный список или ok=false.
// Поколение режима возвращается в обоих случаях.
func (c *RedisCache) GetTop(ctx context.Context, mode string, limit int) ([]scores.Score, int64, bool, error) {
	pipe := c.client.Pipeline()
	top := pipe.HGet(ctx, topKey(mode), strconv.Itoa(limit))
	genCmd := pipe.Get(ctx, genKey(mode))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, err
	}

	gen, err := generation(genCmd)
	if err != nil {
		return nil, 0, false, err
	}

	val, err := top.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, 0, false, err
	}

	var list []scores.Score
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		return nil, 0, false, fmt.Errorf("битое значение кеша %s: %w", topKey(mode), err)
	}
	return list, gen, true, nil
}

// SetTop сохраняет список и продлевает TTL хеша режима.
// Если поколение режима уже не gen, список устарел и не сохраняется.
func (c *RedisCache) SetTop(ctx context.Context, mode string, limit int, gen int64, list []scores.Score) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}

	key := topKey(mode)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(tx.Get(ctx, genKey(mode)))
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, strconv.Itoa(limit), data)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey(mode))
	if errors.Is(err, redis.TxFailedErr) {
		// Между проверкой и записью прошёл сброс: список устарел
		return nil
	}
	return err
}

// Invalidate удаляет все закешированные списки режима и сменяет поколение.
func (c *RedisCache) Invalidate(ctx context.Context, mode string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey(mode))
	pipe.Del(ctx, topKey(mode))
	_, err := pipe.Exec(ctx)
	return err
}

// generation читает счётчик поколения; нет ключа — поколение 0.
func generation(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
