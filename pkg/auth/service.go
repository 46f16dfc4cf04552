package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/session"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var ErrInvalidCredentials = errors.New("username and password are required")

type Service interface {
	Login(ctx context.Context, username, password string) (session.Session, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context) (session.Profile, error)
	UpdateProfile(ctx context.Context, profile session.Profile) (session.Profile, error)
	IsAuthenticated(ctx context.Context) bool
}

type ServiceImpl struct {
	client api.Client
	tokens session.TokenStore
}

func NewService(client api.Client, tokens session.TokenStore) *ServiceImpl {
	return &ServiceImpl{client: client, tokens: tokens}
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type ProfileDTO struct {
	Id        api.Ref `json:"id,omitempty"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	IsCompany bool    `json:"is_company"`
}

func ProfileToDTO(p session.Profile) ProfileDTO {
	return ProfileDTO{
		Id:        api.Ref(p.Id),
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		IsCompany: p.IsCompany,
	}
}

func DTOToProfile(dto ProfileDTO) session.Profile {
	return session.Profile{
		Id:        string(dto.Id),
		Username:  dto.Username,
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		IsCompany: dto.IsCompany,
	}
}

func (s *ServiceImpl) Login(ctx context.Context, username, password string) (session.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return session.Session{}, ErrInvalidCredentials
	}

	var pair tokenPair
	err := s.client.PostPublic(ctx, "/auth/token/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to log in: %w", err)
	}
	if pair.Access == "" {
		return session.Session{}, fmt.Errorf("failed to log in: %w", api.ErrUnauthenticated)
	}

	token := &oauth2.Token{AccessToken: pair.Access, RefreshToken: pair.Refresh, TokenType: "Bearer"}
	if err := s.tokens.Save(ctx, token); err != nil {
		return session.Session{}, fmt.Errorf("failed to store tokens: %w", err)
	}
	log.Debugf("logged in as %s", username)

	current := session.New(token)
	profile, err := s.Profile(ctx)
	if err != nil {
		log.Warnf("logged in but unable to fetch profile: %v", err)
		return current, nil
	}
	current.Profile = &profile
	return current, nil
}

// Logout tells the API to forget the refresh token. Local tokens are cleared regardless of the outcome.
func (s *ServiceImpl) Logout(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		log.Warnf("unable to load tokens before logout: %v", err)
	}
	if token != nil && token.AccessToken != "" {
		body := map[string]string{"refresh": token.RefreshToken}
		if err := s.client.Post(ctx, "/auth/logout/", body, nil); err != nil {
			log.Warnf("logout request failed, clearing local tokens anyway: %v", err)
		}
	}
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var pair tokenPair
	err := s.client.PostPublic(ctx, "/auth/refresh/", map[string]string{"refresh": refreshToken}, &pair)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if pair.Access == "" {
		return "", errors.New("refresh response carried no access token")
	}
	return pair.Access, nil
}

// Profile reads the current user's profile. The endpoint answers either with the profile object
// or with a list holding it as the first element.
func (s *ServiceImpl) Profile(ctx context.Context) (session.Profile, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/profile/", nil, &raw); err != nil {
		return session.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var dto ProfileDTO
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list api.Collection[ProfileDTO]
		if err := json.Unmarshal(raw, &list); err != nil {
			return session.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
		}
		if len(list) == 0 {
			return session.Profile{}, fmt.Errorf("failed to get profile: %w", api.ErrNotFound)
		}
		dto = list[0]
	} else if err := json.Unmarshal(raw, &dto); err != nil {
		return session.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	return DTOToProfile(dto), nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, profile session.Profile) (session.Profile, error) {
	if profile.Id == "" {
		return session.Profile{}, errors.New("profile id is required")
	}
	payload := ProfileToDTO(profile)
	payload.Id = ""

	var updated ProfileDTO
	if err := s.client.Put(ctx, fmt.Sprintf("/profile/%s/", profile.Id), payload, &updated); err != nil {
		return session.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if updated.Id == "" {
		updated.Id = api.Ref(profile.Id)
	}
	return DTOToProfile(updated), nil
}

func (s *ServiceImpl) IsAuthenticated(ctx context.Context) bool {
	token, err := s.tokens.Load(ctx)
	return err == nil && token != nil && token.AccessToken != ""
}
