package chatd

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

// UserResolver maps an authenticated principal's external ID (the JWT
// subject) to the internal chatmodel.User row the rest of the domain keys
// off of, creating the row on first sight — the same FirstOrCreate idiom
// conversation.Store and userstate.Store use for their own tables.
type UserResolver struct {
	db    *gorm.DB
	idgen func() string
}

// NewUserResolver builds a UserResolver.
func NewUserResolver(db *gorm.DB, idgen func() string) *UserResolver {
	return &UserResolver{db: db, idgen: idgen}
}

// Resolve returns the internal user id for externalID, creating the user
// row if this is its first appearance.
func (r *UserResolver) Resolve(ctx context.Context, externalID string) (string, error) {
	user := chatmodel.User{ExternalID: externalID}
	err := r.db.WithContext(ctx).
		Where(chatmodel.User{ExternalID: externalID}).
		Attrs(chatmodel.User{ID: r.idgen()}).
		FirstOrCreate(&user).Error
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// EnsureSystemUser returns the internal id of the distinguished system user
// that owns global, read-shared personality profiles, creating it on first
// startup.
func (r *UserResolver) EnsureSystemUser(ctx context.Context) (string, error) {
	user := chatmodel.User{ExternalID: chatmodel.SystemUserExternalID, IsSystem: true}
	err := r.db.WithContext(ctx).
		Where(chatmodel.User{ExternalID: chatmodel.SystemUserExternalID}).
		Attrs(chatmodel.User{ID: r.idgen(), IsSystem: true}).
		FirstOrCreate(&user).Error
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
