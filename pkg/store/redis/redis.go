package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	resultsSuffix = "-Results"
	runsKey       = "starsim-runs"
)

// Store persists sweep results keyed by run id
type Store interface {
	AddResults(ctx context.Context, runID string, results *simulation.Results) error
	GetResults(ctx context.Context, runID string) (*simulation.Results, error)
	DeleteResults(ctx context.Context, runID string) (*simulation.Results, error)
	ListRuns(ctx context.Context) ([]string, error)
}

type RedisStore struct {
	ResultsDB *goredis.Client
}

func InitClient(redisHost, redisPort string, db int, username, password string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Username: username,
		Password: password,
		DB:       db,
	})
}

// Connect pings the server with exponential backoff until it answers or maxRetries is exhausted
func Connect(ctx context.Context, client *goredis.Client, maxRetries uint64) error {
	if client == nil {
		return errors.New(errors.Invalid, "redis client is not initialized")
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(func() error {
		err := client.Ping(ctx).Err()
		if err != nil {
			log.Warnf("Redis at %s not ready: %v", client.Options().Addr, err)
		}
		return err
	}, policy)
}

func resultsKey(runID string) string {
	return runID + resultsSuffix
}

func (s *RedisStore) AddResults(ctx context.Context, runID string, results *simulation.Results) error {

	resultsBytes, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %v ", err)
	}

	if err := s.ResultsDB.Set(ctx, resultsKey(runID), resultsBytes, time.Duration(0)).Err(); err != nil {
		return err
	}
	return s.ResultsDB.SAdd(ctx, runsKey, runID).Err()
}

func (s *RedisStore) GetResults(ctx context.Context, runID string) (*simulation.Results, error) {
	resultsBytes, err := s.ResultsDB.Get(ctx, resultsKey(runID)).Result()
	if err == goredis.Nil {
		return nil, errors.New(errors.NotFound, "results for run id %s do not exist", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching results for run id %s: %v", runID, err)
	}

	if len(resultsBytes) == 0 {
		return nil, errors.New(errors.NotFound, "results for run id %s do not exist", runID)
	}

	results := &simulation.Results{}
	err = json.Unmarshal([]byte(resultsBytes), results)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %v ", err)
	}

	return results, nil
}

func (s *RedisStore) DeleteResults(ctx context.Context, runID string) (*simulation.Results, error) {
	results, err := s.GetResults(ctx, runID)
	if err != nil {
		return nil, err
	}

	if err := s.ResultsDB.Del(ctx, resultsKey(runID)).Err(); err != nil {
		return nil, err
	}
	return results, s.ResultsDB.SRem(ctx, runsKey, runID).Err()
}

func (s *RedisStore) ListRuns(ctx context.Context) ([]string, error) {
	runs, err := s.ResultsDB.SMembers(ctx, runsKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(runs)
	return runs, nil
}

// RunIDFromKey strips the results suffix from a redis key
func RunIDFromKey(key string) string {
	return strings.TrimSuffix(key, resultsSuffix)
}
