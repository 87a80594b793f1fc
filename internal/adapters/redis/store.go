package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	backend "github.com/redis/go-redis/v9"

	"github.com/katalvlaran/matchcycle/model"
)

// Store implements ports.HistoryStore and ports.Loader on Redis.
//
// Layout under the prefix:
//   - <prefix>history       hash: JSON ["lo","hi"] → last cycle
//   - <prefix>participants  hash: id → JSON participant
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "matchcycle:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) historyKey() string { return s.prefix + "history" }
func (s *Store) participantsKey() string { return s.prefix + "participants" }

// keepNewest stores each (field, cycle) pair unless a newer cycle is present.
var keepNewest = backend.NewScript(`
for i = 1, #ARGV, 2 do
  local cur = redis.call('HGET', KEYS[1], ARGV[i])
  if (not cur) or tonumber(cur) < tonumber(ARGV[i + 1]) then
    redis.call('HSET', KEYS[1], ARGV[i], ARGV[i + 1])
  end
end
return 0
`)

// AppendHistory records each pair, keeping the newest cycle per pair.
func (s *Store) AppendHistory(ctx context.Context, records []model.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	args := make([]any, 0, 2*len(records))
	for _, r := range records {
		k := r.Key()
		field, err := json.Marshal([2]string{k.Lo, k.Hi})
		if err != nil {
			return fmt.Errorf("failed to encode pair: %w", err)
		}
		args = append(args, string(field), r.LastCycle)
	}
	if err := keepNewest.Run(ctx, s.client, []string{s.historyKey()}, args...).Err(); err != nil && err != backend.Nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// LoadHistory returns one record per stored pair, sorted by pair.
func (s *Store) LoadHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	vals, err := s.client.HGetAll(ctx, s.historyKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	out := make([]model.HistoryRecord, 0, len(vals))
	for field, v := range vals {
		var pair [2]string
		if err := json.Unmarshal([]byte(field), &pair); err != nil {
			return nil, fmt.Errorf("failed to decode history field %q: %w", field, err)
		}
		cycle, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cycle of %q: %w", field, err)
		}
		out = append(out, model.HistoryRecord{A: pair[0], B: pair[1], LastCycle: cycle})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out, nil
}

// SaveParticipants replaces the stored pool.
func (s *Store) SaveParticipants(ctx context.Context, participants []model.Participant) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.participantsKey())
	for _, p := range participants {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal participant: %w", err)
		}
		pipe.HSet(ctx, s.participantsKey(), p.ID, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save participants: %w", err)
	}
	return nil
}

// LoadParticipants returns the stored pool sorted by id.
func (s *Store) LoadParticipants(ctx context.Context) ([]model.Participant, error) {
	vals, err := s.client.HGetAll(ctx, s.participantsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	out := make([]model.Participant, 0, len(vals))
	for id, v := range vals {
		var p model.Participant
		if err := json.Unmarshal([]byte(v), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participant %q: %w", id, err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
