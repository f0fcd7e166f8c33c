package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/models"
)

type UserStore struct {
	users docstore.Collection
	now   func() time.Time
}

func NewUserStore(docs docstore.Store) *UserStore {
	return &UserStore{users: docs.Collection(UsersCollection), now: utcNow}
}

// GetUsers lists users newest first. If the ordered query fails (an index
// the store does not have, for instance) it falls back to an unordered read
// of the whole collection instead of returning the error. Either way the
// result is sorted on the decoded createdAt, profiles without one last.
func (s *UserStore) GetUsers(ctx context.Context) ([]models.User, error) {
	docs, err := s.users.Find(ctx, docstore.Query{}.OrderBy("createdAt", true))
	if err != nil {
		slog.Warn("ordered user listing failed, falling back to unordered", "error", err)
		docs, err = s.users.Find(ctx, docstore.Query{})
		if err != nil {
			return nil, err
		}
	}
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, userFromDoc(d))
	}
	newestFirst(users, func(u models.User) time.Time { return u.CreatedAt })
	return users, nil
}

// UpdateUserRole sets the role unconditionally; guarding against an admin
// demoting themselves is the caller's job.
func (s *UserStore) UpdateUserRole(ctx context.Context, uid, role string) error {
	return s.users.Update(ctx, uid, docstore.Fields{"role": role})
}

// UpdateProfile writes the supplied profile fields of an existing user.
func (s *UserStore) UpdateProfile(ctx context.Context, uid string, upd models.ProfileUpdate) error {
	fields := docstore.Fields{}
	if upd.DisplayName != nil {
		fields["displayName"] = *upd.DisplayName
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.PhotoURL != nil {
		fields["photoURL"] = *upd.PhotoURL
	}
	if len(fields) == 0 {
		_, err := s.users.Get(ctx, uid)
		return err
	}
	return s.users.Update(ctx, uid, fields)
}

// CountUsers reads every profile; the store has no count aggregate.
func (s *UserStore) CountUsers(ctx context.Context) (int, error) {
	docs, err := s.users.Find(ctx, docstore.Query{})
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// GetUser returns nil, nil when no profile exists for uid.
func (s *UserStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.users.Get(ctx, uid)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := userFromDoc(*doc)
	return &u, nil
}

func (s *UserStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.users.Find(ctx, docstore.Where("email", email).Take(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	u := userFromDoc(docs[0])
	return &u, nil
}

// CreateUser writes a profile document keyed by uid. The legacy inline
// favorites and readingGoals arrays are written empty for older clients and
// never read back.
func (s *UserStore) CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	uid := nu.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	role := nu.Role
	if role == "" {
		role = models.RoleUser
	}
	createdAt := s.now()
	fields := docstore.Fields{
		"uid":          uid,
		"email":        nu.Email,
		"displayName":  nu.DisplayName,
		"role":         role,
		"createdAt":    createdAt,
		"favorites":    []string{},
		"readingGoals": []any{},
	}
	if nu.PasswordHash != "" {
		fields["password"] = nu.PasswordHash
	}
	if err := s.users.Set(ctx, uid, fields); err != nil {
		return nil, err
	}
	return &models.User{
		UID:          uid,
		Email:        nu.Email,
		DisplayName:  nu.DisplayName,
		Role:         role,
		CreatedAt:    createdAt,
		IsAdmin:      role == models.RoleAdmin,
		PasswordHash: nu.PasswordHash,
	}, nil
}

// EnsureUser returns the profile for an authenticated identity, creating a
// plain user profile on first sign-in.
func (s *UserStore) EnsureUser(ctx context.Context, id models.Identity) (*models.User, error) {
	existing, err := s.GetUser(ctx, id.UID)
	if err != nil || existing != nil {
		return existing, err
	}
	return s.CreateUser(ctx, models.NewUser{
		UID:         id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        models.RoleUser,
	})
}

// userFromDoc maps a users document. createdAt is an ISO string on profiles
// created by the sign-in flow and a native timestamp elsewhere.
func userFromDoc(d docstore.Document) models.User {
	role := d.String("role")
	if role == "" {
		role = models.RoleUser
	}
	return models.User{
		UID:          d.ID,
		Email:        d.String("email"),
		DisplayName:  d.String("displayName"),
		Bio:          d.String("bio"),
		PhotoURL:     d.String("photoURL"),
		Role:         role,
		CreatedAt:    d.Time("createdAt"),
		IsAdmin:      role == models.RoleAdmin,
		PasswordHash: d.String("password"),
	}
}
