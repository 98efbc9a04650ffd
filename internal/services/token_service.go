package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/nkoryukov/taskboard/internal/models"
)

// Presented tokens look like "<token-id>|<secret>" so the digest
// can be looked up by primary key before comparing.
const tokenSeparator = "|"

type tokenServiceImpl struct {
	logger zerolog.Logger
	db     Database
}

func NewTokenService(
	logger zerolog.Logger,
	db Database,
) TokenService {
	return &tokenServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *tokenServiceImpl) CreateToken(ctx context.Context, userID, name string) (*models.APIToken, string, error) {
	if name == "" {
		return nil, "", newValidationError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return nil, "", newValidationError("name", "can be up to 255 characters")
	}

	secret, err := generateTokenSecret()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate token secret")
		return nil, "", err
	}

	token := &models.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Digest:    digestTokenSecret(secret),
		CreatedAt: time.Now(),
	}

	const insertTokenQuery = `
INSERT INTO api_tokens (id,
                        user_id,
                        name,
                        digest,
                        created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = s.db.Exec(
		ctx,
		insertTokenQuery,
		token.ID,
		token.UserID,
		token.Name,
		token.Digest,
		token.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert api token")
		return nil, "", err
	}

	s.logger.Info().
		Str("token_id", token.ID).
		Str("user_id", userID).
		Msg("issued api token")
	return token, token.ID + tokenSeparator + secret, nil
}

func (s *tokenServiceImpl) ListTokens(ctx context.Context, userID string) ([]*models.APIToken, error) {
	const selectTokensQuery = `
SELECT id,
       name,
       last_used_at,
       created_at
FROM api_tokens
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := s.db.Query(
		ctx,
		selectTokensQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select api tokens")
		return nil, err
	}
	defer rows.Close()

	tokens := make([]*models.APIToken, 0)
	for rows.Next() {
		token := &models.APIToken{UserID: userID}
		err = rows.Scan(
			&token.ID,
			&token.Name,
			&token.LastUsedAt,
			&token.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan api token")
			return nil, err
		}
		tokens = append(tokens, token)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return tokens, nil
}

func (s *tokenServiceImpl) DeleteToken(ctx context.Context, userID, tokenID string) error {
	if uuid.Validate(tokenID) != nil {
		return ErrTokenNotFound
	}

	const selectTokenOwnerQuery = `
SELECT user_id
FROM api_tokens
WHERE id = $1
`
	var ownerID string
	err := s.db.QueryRow(
		ctx,
		selectTokenOwnerQuery,
		tokenID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("token_id", tokenID).
				Msg("api token not found")
			return ErrTokenNotFound
		}

		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to select api token owner")
		return err
	}
	if ownerID != userID {
		s.logger.Warn().
			Str("token_id", tokenID).
			Str("user_id", userID).
			Msg("api token owned by another user")
		return ErrTokenForbidden
	}

	const deleteTokenQuery = `
DELETE FROM api_tokens
WHERE id = $1 AND user_id = $2
`
	tag, err := s.db.Exec(
		ctx,
		deleteTokenQuery,
		tokenID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to delete api token")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	s.logger.Info().
		Str("token_id", tokenID).
		Str("user_id", userID).
		Msg("revoked api token")
	return nil
}

func (s *tokenServiceImpl) AuthenticateToken(ctx context.Context, plaintext string) (string, error) {
	tokenID, secret, found := strings.Cut(plaintext, tokenSeparator)
	if !found || secret == "" || uuid.Validate(tokenID) != nil {
		return "", ErrTokenInvalid
	}

	const selectTokenQuery = `
SELECT user_id,
       digest
FROM api_tokens
WHERE id = $1
`
	var userID, digest string
	err := s.db.QueryRow(
		ctx,
		selectTokenQuery,
		tokenID,
	).Scan(
		&userID,
		&digest,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenInvalid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select api token")
		return "", err
	}

	presented := digestTokenSecret(secret)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(digest)) != 1 {
		s.logger.Warn().
			Str("token_id", tokenID).
			Msg("api token digest mismatch")
		return "", ErrTokenInvalid
	}

	const touchTokenQuery = `
UPDATE api_tokens
SET last_used_at = $1
WHERE id = $2
`
	_, err = s.db.Exec(
		ctx,
		touchTokenQuery,
		time.Now(),
		tokenID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to touch api token")
		return "", err
	}

	return userID, nil
}

func generateTokenSecret() (string, error) {
	buf := make([]byte, 32)
	_, err := rand.Read(buf)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func digestTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
