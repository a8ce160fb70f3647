package handlers

import (
	"time"

	"github.com/sortwise/sessiond/internal/domain/account"
	"github.com/sortwise/sessiond/internal/domain/session"
	"github.com/sortwise/sessiond/internal/shared/biztime"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   string           `json:"expires_at"`
	ExpiresIn   int64            `json:"expires_in"`
	Account     *AccountResponse `json:"account"`
}

type AccountResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at,omitempty"`
}

type SessionResponse struct {
	AccountID        int64  `json:"account_id"`
	TokenFingerprint string `json:"token_fingerprint"`
	IssuedAt         string `json:"issued_at,omitempty"`
	ExpiresAt        string `json:"expires_at,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
}

type OnlineAccountsResponse struct {
	AccountIDs []int64 `json:"account_ids"`
	Count      int     `json:"count"`
}

type OnlineCountResponse struct {
	Count int `json:"count"`
}

type ForceLogoutResponse struct {
	AccountID int64 `json:"account_id"`
	Kicked    bool  `json:"kicked"`
}

func toAccountResponse(a *account.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:        int64(a.ID),
		Username:  a.Username,
		Role:      string(a.Role),
		Active:    a.Active,
		CreatedAt: biztime.Format(a.CreatedAt),
	}
}

func toSessionResponse(s *session.Session, now time.Time) *SessionResponse {
	resp := &SessionResponse{
		AccountID:        int64(s.AccountID),
		TokenFingerprint: s.Fingerprint(),
		IssuedAt:         biztime.Format(s.IssuedAt),
		ExpiresAt:        biztime.Format(s.ExpiresAt),
	}
	if !s.ExpiresAt.IsZero() {
		resp.ExpiresIn = int64(s.Remaining(now).Seconds())
	}
	return resp
}

func toInt64s(ids []session.AccountID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
