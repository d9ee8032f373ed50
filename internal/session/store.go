package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

var ErrSessionInvalid = errors.New("session invalid")

// UserLoader is the database fallback for a cache miss.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Store resolves the caller profile for a session id. Profiles are
// kept in Redis under session:<sid> with a TTL; on a miss the users
// table is consulted and the result written back.
type Store struct {
	rdb   *redis.Client
	users UserLoader
	ttl   time.Duration
	log   zerolog.Logger
}

func NewStore(rdb *redis.Client, users UserLoader, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{rdb: rdb, users: users, ttl: ttl, log: log}
}

func (s *Store) Resolve(ctx context.Context, sessionID, userID uuid.UUID) (model.Principal, error) {
	key := sessionKey(sessionID)

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var principal model.Principal
		if jsonErr := json.Unmarshal([]byte(raw), &principal); jsonErr == nil && principal.UserID == userID {
			return principal, nil
		}
		// Corrupt or mismatched entry: drop it and fall through.
		_ = s.rdb.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("session store read failed, falling back to database")
	}

	principal, err := s.loadFromDB(ctx, userID)
	if err != nil {
		return model.Principal{}, err
	}

	if payload, jsonErr := json.Marshal(principal); jsonErr == nil {
		if setErr := s.rdb.Set(ctx, key, payload, s.ttl).Err(); setErr != nil {
			s.log.Warn().Err(setErr).Msg("session store write-back failed")
		}
	}

	return principal, nil
}

// Invalidate removes a cached profile, forcing the next resolve to hit
// the users table.
func (s *Store) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *Store) loadFromDB(ctx context.Context, userID uuid.UUID) (model.Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Principal{}, ErrSessionInvalid
		}
		return model.Principal{}, err
	}
	if !user.IsActive {
		return model.Principal{}, ErrSessionInvalid
	}
	return model.Principal{
		UserID:       user.ID,
		Role:         user.Role,
		WardID:       user.WardID,
		DepartmentID: user.DepartmentID,
		FullName:     user.FullName,
	}, nil
}

func sessionKey(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}
