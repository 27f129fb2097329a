package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/security"
	"github.com/bdsvietnam/bdshub.go/lib/tokens"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

type BdshubService struct {
	Config      *Config
	DB          *bun.DB
	Logger      *lecho.Logger
	EventPubSub *Pubsub
}

type AuthResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// GenerateToken authenticates with either a login (username or email) and
// password or with a refresh token.
func (svc *BdshubService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (*AuthResult, error) {
	var user models.User

	switch {
	case login != "" || password != "":
		err := svc.DB.NewSelect().Model(&user).
			Where("username = ? OR email = ?", login, strings.ToLower(login)).
			Limit(1).
			Scan(ctx)
		if err != nil {
			security.CheckUnknownPassword(password)
			return nil, ErrBadCredentials
		}
		if !security.CheckPassword(user.Password, password) {
			return nil, ErrBadCredentials
		}
	case inRefreshToken != "":
		claims, err := tokens.ParseToken(svc.Config.JWTSecret, inRefreshToken, true)
		if err != nil {
			return nil, ErrBadCredentials
		}
		if err := svc.DB.NewSelect().Model(&user).Where("id = ?", claims.ID).Limit(1).Scan(ctx); err != nil {
			return nil, ErrBadCredentials
		}
	default:
		return nil, fmt.Errorf("login and password or refresh token is required: %w", ErrBadCredentials)
	}

	if user.Status == common.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	_, err := svc.DB.NewUpdate().Model(&user).
		Set("last_login = ?", time.Now()).
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	accessToken, err := tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, &user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, &user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: accessToken, RefreshToken: refreshToken, User: &user}, nil
}

// notFound turns sql.ErrNoRows into ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
