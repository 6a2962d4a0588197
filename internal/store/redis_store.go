package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

// RedisStore keeps each game as a JSON document under <prefix>:doc:<id>, with insertion
// order tracked in the sorted set <prefix>:index scored by <prefix>:seq.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps a redis client. An empty prefix defaults to "games".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "games"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedis connects to addr and verifies the connection with PING.
func OpenRedis(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) docKey(id string) string { return s.prefix + ":doc:" + id }
func (s *RedisStore) indexKey() string        { return s.prefix + ":index" }
func (s *RedisStore) seqKey() string          { return s.prefix + ":seq" }

func (s *RedisStore) FindByID(ctx context.Context, id string) (domaingames.Game, bool, error) {
	raw, err := s.client.Get(ctx, s.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domaingames.Game{}, false, nil
	}
	if err != nil {
		return domaingames.Game{}, false, err
	}
	var g domaingames.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return domaingames.Game{}, false, fmt.Errorf("decode game %s: %w", id, err)
	}
	return g, true, nil
}

// insertScript writes the document only if its key is free and indexes it in the same step.
// Scripts are not rolled back on error, so the sequence is taken before anything is written.
// KEYS: doc, index, seq. ARGV: document, id. Returns 0 when the id is taken.
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('SET', KEYS[1], ARGV[1])
redis.call('ZADD', KEYS[2], seq, ARGV[2])
return 1
`)

// saveScript upserts the document, indexing it only when it is not indexed yet so it keeps its position.
// KEYS: doc, index, seq. ARGV: document, id.
var saveScript = redis.NewScript(`
local seq = false
if redis.call('ZSCORE', KEYS[2], ARGV[2]) == false then
	seq = redis.call('INCR', KEYS[3])
end
redis.call('SET', KEYS[1], ARGV[1])
if seq then
	redis.call('ZADD', KEYS[2], seq, ARGV[2])
end
return 1
`)

func (s *RedisStore) keys(id string) []string {
	return []string{s.docKey(id), s.indexKey(), s.seqKey()}
}

// Insert claims the document key and its index entry atomically, so a failed insert leaves nothing behind
// and concurrent inserts of the same id cannot both win.
func (s *RedisStore) Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	doc, err := json.Marshal(game)
	if err != nil {
		return domaingames.Game{}, fmt.Errorf("encode game %s: %w", game.ID, err)
	}
	created, err := insertScript.Run(ctx, s.client, s.keys(game.ID), doc, game.ID).Int()
	if err != nil {
		return domaingames.Game{}, fmt.Errorf("insert %s: %w", game.ID, err)
	}
	if created == 0 {
		return domaingames.Game{}, fmt.Errorf("insert %s: %w", game.ID, domaingames.ErrDuplicateID)
	}
	return game, nil
}

func (s *RedisStore) Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	doc, err := json.Marshal(game)
	if err != nil {
		return domaingames.Game{}, fmt.Errorf("encode game %s: %w", game.ID, err)
	}
	if err := saveScript.Run(ctx, s.client, s.keys(game.ID), doc, game.ID).Err(); err != nil {
		return domaingames.Game{}, fmt.Errorf("save %s: %w", game.ID, err)
	}
	return game, nil
}

func (s *RedisStore) Delete(ctx context.Context, game domaingames.Game) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docKey(game.ID))
		pipe.ZRem(ctx, s.indexKey(), game.ID)
		return nil
	})
	return err
}

func (s *RedisStore) FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error) {
	total, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, 0, err
	}
	start, end, ok := pageBounds(page, size, total)
	if !ok {
		return []domaingames.Game{}, total, nil
	}
	ids, err := s.client.ZRange(ctx, s.indexKey(), start, end-1).Result()
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []domaingames.Game{}, total, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	docs, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, err
	}
	games := make([]domaingames.Game, 0, len(docs))
	for i, doc := range docs {
		raw, ok := doc.(string)
		if !ok {
			// Index entry without a document: deleted between ZRANGE and MGET.
			continue
		}
		var g domaingames.Game
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, 0, fmt.Errorf("decode game %s: %w", ids[i], err)
		}
		games = append(games, g)
	}
	return games, total, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
