package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "caterhub/internal/domain/user"
)

// UserRepositoryFS implements user.Repository using Firestore.
//
// Collection design:
// - collection: users
// - docId: uid (Firebase Auth uid; docId is the source of truth)
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

// GetByUID returns (nil, nil) if not found (nil policy).
func (r *UserRepositoryFS) GetByUID(ctx context.Context, uid string) (*userdom.Profile, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return nil, errors.New("user_repository_fs: uid is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var p userdom.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, err
	}
	p.UID = id
	return &p, nil
}

// Ensure upserts the full profile with a merge set, so fields the caller did
// not touch survive. The merge decisions (sticky verified, role precedence)
// already happened in the domain layer.
func (r *UserRepositoryFS) Ensure(ctx context.Context, p *userdom.Profile) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	if p == nil {
		return errors.New("user_repository_fs: profile is nil")
	}
	id := strings.TrimSpace(p.UID)
	if id == "" {
		return errors.New("user_repository_fs: profile.UID is empty")
	}

	_, err := r.col().Doc(id).Set(ctx, profileDocData(p), firestore.MergeAll)
	return err
}

// profileDocData converts the profile to field-map data. MergeAll requires
// map data; keys omitted here survive the merge untouched.
func profileDocData(p *userdom.Profile) map[string]any {
	data := map[string]any{
		"email":         strings.TrimSpace(p.Email),
		"name":          p.Name,
		"role":          string(p.Role),
		"requestedRole": p.RequestedRole,
		"isActive":      p.IsActive,
		"isVerified":    p.IsVerified,
		"updatedAt":     p.UpdatedAt,
	}
	if v := strings.TrimSpace(p.Phone); v != "" {
		data["phone"] = v
	}
	if v := strings.TrimSpace(p.Address); v != "" {
		data["address"] = v
	}
	if !p.CreatedAt.IsZero() {
		data["createdAt"] = p.CreatedAt
	}
	return data
}

// Update patches profile fields; a nil value deletes the field (used to clear
// requestedRole after approval).
func (r *UserRepositoryFS) Update(ctx context.Context, uid string, fields map[string]any) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("user_repository_fs: uid is empty")
	}
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		if v == nil {
			updates = append(updates, firestore.Update{Path: k, Value: firestore.Delete})
			continue
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}

func (r *UserRepositoryFS) Delete(ctx context.Context, uid string) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(uid)
	if id == "" {
		return errors.New("user_repository_fs: uid is empty")
	}
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

// ListAll returns every profile, newest first.
func (r *UserRepositoryFS) ListAll(ctx context.Context) ([]*userdom.Profile, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	it := r.col().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return drainProfiles(it)
}

// ListSellerRequests returns profiles awaiting seller approval, newest first.
func (r *UserRepositoryFS) ListSellerRequests(ctx context.Context) ([]*userdom.Profile, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	it := r.col().
		Where("requestedRole", "==", string(userdom.RoleSeller)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return drainProfiles(it)
}

func drainProfiles(it *firestore.DocumentIterator) ([]*userdom.Profile, error) {
	defer it.Stop()
	out := []*userdom.Profile{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var p userdom.Profile
		if err := snap.DataTo(&p); err != nil {
			return nil, err
		}
		p.UID = snap.Ref.ID
		out = append(out, &p)
	}
	return out, nil
}
