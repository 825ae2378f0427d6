package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"giftstock-backend/internal/model"
	"giftstock-backend/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// --- DTOs ---

type CreateUserRequest struct {
	Username     string `json:"username" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	EmployeeCode string `json:"employee_code" binding:"required"`
	StoreID      int64  `json:"store_id" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=employee manager"`
}

type UpdateUserRequest struct {
	DisplayName  string `json:"display_name"`
	EmployeeCode string `json:"employee_code"`
	StoreID      int64  `json:"store_id"`
	Role         string `json:"role"`
	Active       *bool  `json:"active"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse returns a holder without exposing the password hash
type UserResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	EmployeeCode string `json:"employee_code"`
	StoreID      int64  `json:"store_id"`
	StoreName    string `json:"store_name"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// DeleteUserResult reports what the holder cascade removed
type DeleteUserResult struct {
	RemovedRecords  int `json:"removed_inventory_records"`
	RemovedRequests int `json:"removed_requests"`
}

// UserService handles holder accounts and authentication. Deleting a holder
// is the single cascade entry point for everything they own.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, id int64) (UserResponse, error)
	ListUsers(ctx context.Context, activeOnly bool, page, limit int) ([]UserResponse, int, error)
	UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (UserResponse, error)
	DeleteUser(ctx context.Context, id int64, actorID int64) (DeleteUserResult, error)
}

type userService struct {
	store *store.Store
}

func NewUserService(st *store.Store) UserService {
	return &userService{store: st}
}

func toUserResponse(ds *model.Dataset, u model.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		EmployeeCode: u.EmployeeCode,
		StoreID:      u.StoreID,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339),
	}
	if st := ds.FindStore(u.StoreID); st != nil {
		resp.StoreName = st.Name
	}
	return resp
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	if !model.ValidRole(req.Role) {
		return UserResponse{}, fmt.Errorf("invalid role %q: must be employee or manager", req.Role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, errors.New("failed to hash password")
	}

	var out UserResponse
	err = s.store.Update(func(ds *model.Dataset) error {
		if ds.FindUserByUsername(req.Username) != nil {
			return fmt.Errorf("username %q already exists", req.Username)
		}
		if ds.FindStore(req.StoreID) == nil {
			return fmt.Errorf("%w: store %d", ErrNotFound, req.StoreID)
		}

		now := time.Now()
		u := model.User{
			ID:           ds.Counters.TakeUserID(),
			Username:     req.Username,
			DisplayName:  req.DisplayName,
			EmployeeCode: req.EmployeeCode,
			StoreID:      req.StoreID,
			Role:         req.Role,
			Active:       true,
			Password:     string(hashed),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		ds.Users = append(ds.Users, u)
		out = toUserResponse(ds, u)
		return nil
	})
	if err != nil {
		return UserResponse{}, err
	}
	return out, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (TokenResponse, error) {
	var user model.User
	err := s.store.View(func(ds *model.Dataset) error {
		u := ds.FindUserByUsername(req.Username)
		if u == nil || !u.Active {
			return errors.New("invalid username or password")
		}
		user = *u
		return nil
	})
	if err != nil {
		return TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return TokenResponse{}, errors.New("invalid username or password")
	}

	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	var user model.User
	err := s.store.Update(func(ds *model.Dataset) error {
		now := time.Now()
		for i, t := range ds.RefreshTokens {
			if t.Token != refreshToken {
				continue
			}
			ds.RefreshTokens = append(ds.RefreshTokens[:i], ds.RefreshTokens[i+1:]...)
			if now.After(t.ExpiresAt) {
				return errors.New("refresh token expired")
			}
			u := ds.FindUser(t.UserID)
			if u == nil || !u.Active {
				return errors.New("invalid refresh token")
			}
			user = *u
			return nil
		}
		return errors.New("invalid refresh token")
	})
	if err != nil {
		return TokenResponse{}, err
	}

	return s.issueTokens(user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	return s.store.Update(func(ds *model.Dataset) error {
		for i, t := range ds.RefreshTokens {
			if t.Token == refreshToken {
				ds.RefreshTokens = append(ds.RefreshTokens[:i], ds.RefreshTokens[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

func (s *userService) issueTokens(user model.User) (TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"role": user.Role,
		"exp":  now.Add(accessTokenTTL).Unix(),
	})

	// Same fallback strategy as the middleware
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return TokenResponse{}, errors.New("failed to generate token")
	}

	refresh := uuid.NewString()
	err = s.store.Update(func(ds *model.Dataset) error {
		ds.RefreshTokens = append(ds.RefreshTokens, model.RefreshToken{
			Token:     refresh,
			UserID:    user.ID,
			ExpiresAt: now.Add(refreshTokenTTL),
			CreatedAt: now,
		})
		return nil
	})
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{AccessToken: signed, RefreshToken: refresh}, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (UserResponse, error) {
	var out UserResponse
	err := s.store.View(func(ds *model.Dataset) error {
		u := ds.FindUser(id)
		if u == nil {
			return fmt.Errorf("%w: holder %d", ErrNotFound, id)
		}
		out = toUserResponse(ds, *u)
		return nil
	})
	if err != nil {
		return UserResponse{}, err
	}
	return out, nil
}

func (s *userService) ListUsers(ctx context.Context, activeOnly bool, page, limit int) ([]UserResponse, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var result []UserResponse
	var total int
	err := s.store.View(func(ds *model.Dataset) error {
		var matched []model.User
		for _, u := range ds.Users {
			if activeOnly && !selectableUser(u) {
				continue
			}
			matched = append(matched, u)
		}
		total = len(matched)

		start := (page - 1) * limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		for _, u := range matched[start:end] {
			result = append(result, toUserResponse(ds, u))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (UserResponse, error) {
	var out UserResponse
	err := s.store.Update(func(ds *model.Dataset) error {
		u := ds.FindUser(id)
		if u == nil {
			return fmt.Errorf("%w: holder %d", ErrNotFound, id)
		}
		if req.Role != "" {
			if !model.ValidRole(req.Role) {
				return fmt.Errorf("invalid role %q: must be employee or manager", req.Role)
			}
			u.Role = req.Role
		}
		if req.DisplayName != "" {
			u.DisplayName = req.DisplayName
		}
		if req.EmployeeCode != "" {
			u.EmployeeCode = req.EmployeeCode
		}
		if req.StoreID != 0 {
			if ds.FindStore(req.StoreID) == nil {
				return fmt.Errorf("%w: store %d", ErrNotFound, req.StoreID)
			}
			u.StoreID = req.StoreID
		}
		if req.Active != nil {
			u.Active = *req.Active
		}
		u.UpdatedAt = time.Now()
		out = toUserResponse(ds, *u)
		return nil
	})
	if err != nil {
		return UserResponse{}, err
	}
	return out, nil
}

// DeleteUser removes a holder and cascades: their inventory records go (one
// delete-cleanup ledger entry each), requests they authored go, and pending
// transfer requests targeting them go. Ledger history is never deleted.
func (s *userService) DeleteUser(ctx context.Context, id int64, actorID int64) (DeleteUserResult, error) {
	var result DeleteUserResult
	err := s.store.Update(func(ds *model.Dataset) error {
		u := ds.FindUser(id)
		if u == nil {
			return fmt.Errorf("%w: holder %d", ErrNotFound, id)
		}

		now := time.Now()
		var keptRecords []model.InventoryRecord
		for _, rec := range ds.Inventory {
			if rec.HolderID != id {
				keptRecords = append(keptRecords, rec)
				continue
			}
			appendEntry(ds, rec.HolderID, rec.GiftID, model.LedgerKindDeleteCleanup, -rec.Quantity, "holder removed", actorID, nil, now)
			result.RemovedRecords++
		}
		ds.Inventory = keptRecords

		var keptRequests []model.Request
		for _, r := range ds.Requests {
			authored := r.RequesterID == id
			targetsRemoved := r.Status == model.RequestPending && r.TargetHolderID != nil && *r.TargetHolderID == id
			if authored || targetsRemoved {
				result.RemovedRequests++
				continue
			}
			keptRequests = append(keptRequests, r)
		}
		ds.Requests = keptRequests

		var keptTokens []model.RefreshToken
		for _, t := range ds.RefreshTokens {
			if t.UserID != id {
				keptTokens = append(keptTokens, t)
			}
		}
		ds.RefreshTokens = keptTokens

		for i := range ds.Users {
			if ds.Users[i].ID == id {
				ds.Users = append(ds.Users[:i], ds.Users[i+1:]...)
				break
			}
		}
		return nil
	})
	if err != nil {
		return DeleteUserResult{}, err
	}
	return result, nil
}
