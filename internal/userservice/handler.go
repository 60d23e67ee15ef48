package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adiwicaksono/warta/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c common.Cache) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
		c:  c,
	}
}

// CreateUser registers a new account and publishes a user.created event that
// the mail consumer turns into an activation email.
func (s *UserService) CreateUser(ctx context.Context, name, username, email, password string) (*string, error) {
	v := common.NewValidator()
	validateName(v, name)
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: Password{Plain: password},
	}

	err := u.Password.set(u.Password.Plain)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, u.ID, ActivationTokenTime, TokenScopeActivate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email string
		Token string
	}{
		Email: u.Email,
		Token: token.Plain,
	}

	emailData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	err = s.mb.Publish(ctx, emailData, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		return nil, err
	}

	return &token.Plain, nil
}

// ActivateUser activates an account from its activation token, burns the
// token, and grants the post:write permission.
func (s *UserService) ActivateUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)

	user, err := s.m.getUserByToken(ctx, TokenScopeActivate, hash)
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = s.m.activateUserAccount(tx, ctx, user.ID, user.Version)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.deleteToken(tx, ctx, user.ID, TokenScopeActivate)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	err = s.m.addUserPermission(tx, ctx, user.ID, PermissionWritePost)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LoginUser checks the credentials and returns an access/refresh token pair,
// reusing the stored pair while it is still valid.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	dbToken, err := s.m.getAuthToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if dbToken != nil {
		if dbToken.AccessTokenExpiry.After(time.Now()) && dbToken.RefreshTokenExpiry.After(time.Now()) {
			_ = tx.Rollback()
			return dbToken, nil
		}

		if err := s.m.deleteAuthToken(tx, ctx, user.ID); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	authToken, err := s.m.createAuthToken(tx, ctx, user.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return authToken, nil
}

// GetUserByAccessToken resolves a bearer token to its user. Lookups are
// read-through cached under the hashed token so the hot authentication path
// skips the join on repeat requests.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	payload, _, err := common.GetOrLoad(s.c, common.CacheKeyUserByAccessToken(hash), func() ([]byte, error) {
		user, err := s.m.getUserByAccessToken(ctx, hash)
		if err != nil {
			return nil, err
		}
		return json.Marshal(user)
	})
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	err = s.m.deleteAuthToken(tx, ctx, userID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// UpdateUser edits the profile fields of an account and returns the fresh
// record.
func (s *UserService) UpdateUser(ctx context.Context, userID int, name, email string) (*User, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateName(v, name)
	validateEmail(v, email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email

	if err := s.m.updateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.m.getUserByID(ctx, userID)
}

// ChangePassword stores a new password hash after verifying the current one.
// Issued token pairs stay valid; only the credential changes.
func (s *UserService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	v.Check(currentPassword != "", "current_password", "must be provided")
	validatePassword(v, newPassword)
	if !v.Valid() {
		return v.ValidationError()
	}

	user, err := s.m.getUserCredentials(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := user.Password.compare(currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAuthenticationFailure
	}

	var p Password
	if err := p.set(newPassword); err != nil {
		return err
	}

	return s.m.updateUserPassword(ctx, userID, p.hash, user.Version)
}

// GetUserByUsername returns the profile behind a username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByUsername(ctx, username)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByID(ctx, id)
}

type ListUsersMetadata struct {
	PageSize  int `json:"page_size"`
	Page      int `json:"page"`
	TotalData int `json:"total_data"`
	TotalPage int `json:"total_page"`
}

// ListUsers pages through non-deleted accounts ordered by display name.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]User, ListUsersMetadata, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	v := common.NewValidator()
	v.Check(pageSize <= 100, "page_size", "must be at most 100")
	if !v.Valid() {
		return nil, ListUsersMetadata{}, v.ValidationError()
	}

	users, err := s.m.listUsers(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, ListUsersMetadata{}, err
	}

	total, err := s.m.countUsers(ctx)
	if err != nil {
		return nil, ListUsersMetadata{}, err
	}

	totalPage := 0
	if total > 0 {
		totalPage = (total + pageSize - 1) / pageSize
	}

	meta := ListUsersMetadata{
		PageSize:  pageSize,
		Page:      page,
		TotalData: total,
		TotalPage: totalPage,
	}

	return users, meta, nil
}

// DeleteUser soft-deletes the account. Listings and lookups stop returning it
// immediately; its posts remain attributed but the author no longer resolves.
func (s *UserService) DeleteUser(ctx context.Context, userID int) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.softDeleteUser(ctx, userID); err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.m.deleteAuthToken(tx, ctx, userID); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
