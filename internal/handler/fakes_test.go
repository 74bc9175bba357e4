package handler

import (
	"context"
	"sync"
	"time"

	"github.com/sumire/teltube/internal/domain"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  []domain.User
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) FindPasswordAccount(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email && u.PasswordHash != nil {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) CreatePasswordAccount(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, domain.ErrConflict
		}
	}
	s.nextID++
	u := domain.User{ID: s.nextID, Email: email, PasswordHash: &passwordHash, Name: name, CreatedAt: time.Now()}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *fakeUserStore) CreateGoogleAccount(_ context.Context, p domain.GoogleProfile) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == p.GoogleID {
			return &u, nil
		}
	}
	s.nextID++
	gid, avatar := p.GoogleID, p.Avatar
	u := domain.User{ID: s.nextID, Email: p.Email, Name: p.Name, GoogleID: &gid, AvatarURL: &avatar, CreatedAt: time.Now()}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type fakeVideoStore struct {
	mu     sync.Mutex
	nextID int64
	videos []domain.ChannelVideo
}

func (s *fakeVideoStore) ListByUser(_ context.Context, userID int64) ([]domain.ChannelVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ChannelVideo
	for i := len(s.videos) - 1; i >= 0; i-- {
		if s.videos[i].UserID == userID {
			out = append(out, s.videos[i])
		}
	}
	return out, nil
}

func (s *fakeVideoStore) ListRecent(_ context.Context, limit int) ([]domain.ChannelVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ChannelVideo
	for i := len(s.videos) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.videos[i])
	}
	return out, nil
}

func (s *fakeVideoStore) Create(_ context.Context, v domain.NewVideo) (*domain.CreatedVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	created := domain.Video{
		ID:           s.nextID,
		UserID:       v.UserID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		CreatedAt:    time.Now(),
	}
	s.videos = append(s.videos, domain.ChannelVideo{Video: created, ChannelName: "channel"})
	return &domain.CreatedVideo{
		ID:           created.ID,
		Title:        created.Title,
		VideoURL:     created.VideoURL,
		ThumbnailURL: created.ThumbnailURL,
		CreatedAt:    created.CreatedAt,
	}, nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, videoID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.videos {
		if s.videos[i].ID == videoID {
			s.videos[i].Views++
			return s.videos[i].Views, nil
		}
	}
	return 0, domain.ErrNotFound
}

type fakeMediaHost struct {
	mu     sync.Mutex
	calls  int
	result *domain.UploadResult
	err    error
	got    []byte
}

func (h *fakeMediaHost) Upload(_ context.Context, _ string, data []byte) (*domain.UploadResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.got = data
	return h.result, h.err
}
