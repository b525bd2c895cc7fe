package firestoredb

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/repository"
)

type userRepository struct {
	users *firestore.CollectionRef
}

func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{users: client.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.RegisteredChapters == nil {
		u.RegisteredChapters = []string{}
	}
	logger.StoreCall("CREATE", usersCollection, "userID", u.UserID)
	_, err := r.users.Doc(u.UserID).Create(ctx, u)
	logger.StoreResult("CREATE", usersCollection, err, "userID", u.UserID)
	return translate(err, "user "+u.UserID)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return get[domain.User](ctx, r.users.Doc(userID), "user "+userID)
}

// GetByEmail matches the stored address exactly after normalizing the argument.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	users, err := getAll[domain.User](ctx, r.users.Where("email", "==", email).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, missing("user with email " + email)
	}
	return &users[0], nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users, err := getAll[domain.User](ctx, r.users.Query)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.users.Doc(u.UserID).Update(ctx, []firestore.Update{
		{Path: "name", Value: u.Name},
		{Path: "sapId", Value: u.SapID},
		{Path: "year", Value: u.Year},
	})
	return translate(err, "user "+u.UserID)
}

func (r *userRepository) AddRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	logger.StoreCall("ARRAY_UNION", usersCollection, "userID", userID, "chapter", chapterName)
	_, err := r.users.Doc(userID).Update(ctx, []firestore.Update{
		{Path: "registeredChapters", Value: firestore.ArrayUnion(chapterName)},
	})
	logger.StoreResult("ARRAY_UNION", usersCollection, err, "userID", userID)
	return translate(err, "user "+userID)
}

func (r *userRepository) RemoveRegisteredChapter(ctx context.Context, userID, chapterName string) error {
	logger.StoreCall("ARRAY_REMOVE", usersCollection, "userID", userID, "chapter", chapterName)
	_, err := r.users.Doc(userID).Update(ctx, []firestore.Update{
		{Path: "registeredChapters", Value: firestore.ArrayRemove(chapterName)},
	})
	logger.StoreResult("ARRAY_REMOVE", usersCollection, err, "userID", userID)
	return translate(err, "user "+userID)
}

func (r *userRepository) SetRegisteredChapters(ctx context.Context, userID string, chapterNames []string) error {
	if chapterNames == nil {
		chapterNames = []string{}
	}
	_, err := r.users.Doc(userID).Update(ctx, []firestore.Update{
		{Path: "registeredChapters", Value: chapterNames},
	})
	return translate(err, "user "+userID)
}
