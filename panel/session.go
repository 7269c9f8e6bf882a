package panel

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketplace-admin/dtos"
	"marketplace-admin/models"
)

// Session is the one place that knows whether the panel is signed in.
type Session struct {
	client *Client
	store  Store
	token  string
	user   *models.User
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) User() *models.User {
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.token != "" && s.user != nil
}

// Init restores a persisted session and verifies it against /auth/me.
// Anything that fails verification is cleared.
func (s *Session) Init(ctx context.Context) error {
	st, err := s.store.Load()
	if err != nil {
		s.client.log.Warn("discarding unreadable session", zap.Error(err))
		return s.Clear()
	}
	if st.Token == "" {
		s.token, s.user = "", nil
		return nil
	}

	s.token = st.Token
	s.user = st.User.toModel()

	var me models.User
	if err := s.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &me); err != nil {
		if clearErr := s.Clear(); clearErr != nil {
			return clearErr
		}
		return fmt.Errorf("verify session: %w", err)
	}
	s.user = &me
	return s.persist()
}

// Login signs in and persists the token and user.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp dtos.LoginResponse
	err := s.client.do(ctx, http.MethodPost, "/auth/login", nil,
		dtos.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	s.token = resp.AccessToken
	user := resp.User
	s.user = &user
	if err := s.persist(); err != nil {
		return nil, err
	}
	s.client.log.Info("signed in", zap.String("email", user.Email), zap.String("role", user.Role))
	return s.user, nil
}

// Logout forgets the session in memory and in the store.
func (s *Session) Logout() error {
	return s.Clear()
}

// Clear drops the token and user. The client calls it on every 401.
func (s *Session) Clear() error {
	s.token = ""
	s.user = nil
	return s.store.Clear()
}

func (s *Session) persist() error {
	return s.store.Save(State{Token: s.token, User: storedUser(s.user)})
}

func storedUser(u *models.User) *StoredUser {
	if u == nil {
		return nil
	}
	return &StoredUser{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

func (u *StoredUser) toModel() *models.User {
	if u == nil {
		return nil
	}
	id, _ := uuid.Parse(u.ID)
	return &models.User{ID: id, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}
