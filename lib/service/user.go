package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/security"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}

// CreateUser stores a new account with a zero wallet balance. An empty
// password is replaced by a random one which is returned in the Password
// field, otherwise Password is cleared.
func (svc *BdshubService) CreateUser(ctx context.Context, req *RegisterRequest, role string) (user *models.User, err error) {

	password := req.Password
	generated := false
	if password == "" {
		randPasswordBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		password = string(randPasswordBytes)
		generated = true
	} else if svc.Config.MinPasswordEntropy > 0 {
		entropy := passwordvalidator.GetEntropy(password)
		if entropy < float64(svc.Config.MinPasswordEntropy) {
			return nil, fmt.Errorf("%w (%f), required is %d", ErrWeakPassword, entropy, svc.Config.MinPasswordEntropy)
		}
	}
	if role == "" {
		role = common.RoleMember
	}

	// we only store the hashed password
	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		ID:               newID(),
		Username:         strings.TrimSpace(req.Username),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Password:         hashedPassword,
		Role:             role,
		Status:           common.UserStatusActive,
		WalletBalance:    decimal.Zero,
		FullName:         req.FullName,
		Phone:            req.Phone,
		ProfileCompleted: req.FullName != "" && req.Phone != "",
	}

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.User)(nil)).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		_, err = tx.NewInsert().Model(user).Returning("*").Exec(ctx)
		return err
	})
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	user.Password = ""
	if generated {
		//return the generated password once, it is not stored in plain text
		user.Password = password
	}
	return user, nil
}

// Register creates a member account and logs it in.
func (svc *BdshubService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if _, err := svc.CreateUser(ctx, req, common.RoleMember); err != nil {
		return nil, err
	}
	return svc.GenerateToken(ctx, req.Username, req.Password, "")
}

func (svc *BdshubService) FindUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (svc *BdshubService) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("username = ?", username).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ProfileUpdate only touches the non-nil fields.
type ProfileUpdate struct {
	FullName      *string `json:"full_name"`
	Phone         *string `json:"phone" validate:"omitempty,phone"`
	Address       *string `json:"address"`
	Avatar        *string `json:"avatar"`
	EmailVerified *bool   `json:"email_verified"`
}

func (svc *BdshubService) UpdateProfile(ctx context.Context, userID string, upd *ProfileUpdate) (*models.User, error) {
	if upd.Avatar != nil && *upd.Avatar != "" {
		if err := CheckInlineImages([]string{*upd.Avatar}); err != nil {
			return nil, err
		}
	}
	user := &models.User{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(user).Where("id = ?", userID).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		columns := []string{"updated_at"}
		if upd.FullName != nil {
			user.FullName = *upd.FullName
			columns = append(columns, "full_name")
		}
		if upd.Phone != nil {
			user.Phone = *upd.Phone
			columns = append(columns, "phone")
		}
		if upd.Address != nil {
			user.Address = *upd.Address
			columns = append(columns, "address")
		}
		if upd.Avatar != nil {
			user.Avatar = *upd.Avatar
			columns = append(columns, "avatar")
		}
		if upd.EmailVerified != nil {
			user.EmailVerified = *upd.EmailVerified
			columns = append(columns, "email_verified")
		}
		if user.FullName != "" && user.Phone != "" {
			user.ProfileCompleted = true
			columns = append(columns, "profile_completed")
		}
		_, err := tx.NewUpdate().Model(user).Column(columns...).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

type UserFilter struct {
	Page
	Role   string `query:"role"`
	Status string `query:"status"`
	Query  string `query:"q"`
}

func (svc *BdshubService) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, int, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	users := []models.User{}
	query := svc.DB.NewSelect().Model(&users)
	if filter.Role != "" {
		query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		pattern := likePattern(filter.Query)
		query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("username ILIKE ?", pattern).
				WhereOr("email ILIKE ?", pattern).
				WhereOr("full_name ILIKE ?", pattern)
		})
	}
	total, err := query.OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetUserStatus changes the account status. Suspended users can no longer
// log in, tokens that were already issued keep working until they expire.
func (svc *BdshubService) SetUserStatus(ctx context.Context, userID, status string) (*models.User, error) {
	user := &models.User{}
	res, err := svc.DB.NewUpdate().Model(user).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return user, nil
}
