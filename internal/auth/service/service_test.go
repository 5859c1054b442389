package service

import (
	"context"
	"testing"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/password"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/roles"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/token"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/transport"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/apperr"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeAuthRepo struct {
	users  map[uuid.UUID]repository.User
	tokens map[string]storedToken
}

type storedToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:  map[uuid.UUID]repository.User{},
		tokens: map[string]storedToken{},
	}
}

func (f *fakeAuthRepo) CreateUser(_ context.Context, p repository.CreateUserParams) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == p.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	now := time.Now()
	user := repository.User{
		ID: uuid.New(), Email: p.Email, PasswordHash: p.PasswordHash,
		FullName: p.FullName, Roles: p.Roles, Regions: p.Regions,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeAuthRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeAuthRepo) SetUserActive(_ context.Context, id uuid.UUID, active bool) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	u.IsActive = active
	f.users[id] = u
	return u, nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	f.tokens[hash] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeAuthRepo) GetRefreshToken(_ context.Context, hash string) (uuid.UUID, time.Time, error) {
	t, ok := f.tokens[hash]
	if !ok {
		return uuid.Nil, time.Time{}, repository.ErrNotFound
	}
	return t.userID, t.expiresAt, nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, hash string) error {
	delete(f.tokens, hash)
	return nil
}

func (f *fakeAuthRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for hash, t := range f.tokens {
		if t.userID == userID {
			delete(f.tokens, hash)
		}
	}
	return nil
}

var _ repository.AuthRepository = (*fakeAuthRepo)(nil)

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }
func (testAuthConfig) GetRefreshTokenTTL() time.Duration {
	return 30 * 24 * time.Hour
}

// sharedHash is computed once; bcrypt is deliberately slow.
var sharedHash string

func passwordHash(t *testing.T) string {
	t.Helper()
	if sharedHash == "" {
		h, err := password.Hash("Sup3r$ecret")
		if err != nil {
			t.Fatalf("hashing fixture password: %v", err)
		}
		sharedHash = h
	}
	return sharedHash
}

func seedUser(t *testing.T, repo *fakeAuthRepo, email string, active bool) repository.User {
	t.Helper()
	now := time.Now()
	user := repository.User{
		ID: uuid.New(), Email: email, PasswordHash: passwordHash(t),
		FullName: "Ravi Kumar", Roles: []string{roles.InteriorDesigner},
		Regions: []string{"Mumbai"}, IsActive: active,
		CreatedAt: now, UpdatedAt: now,
	}
	repo.users[user.ID] = user
	return user
}

func newAuthService(repo *fakeAuthRepo) *Service {
	return New(repo, testAuthConfig{}, logger.New("development"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@gharinto.com", "Sup3r$ecret"},
		{"wrong password", "ravi@gharinto.com", "not-the-password"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if !apperr.Is(err, apperr.KindUnauthorized) {
				t.Errorf("Login error = %v, want unauthorized", err)
			}
		})
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "ravi@gharinto.com", false)
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), "ravi@gharinto.com", "Sup3r$ecret")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("Login error = %v, want unauthorized", err)
	}
}

func TestLoginIssuesVerifiableTokenPair(t *testing.T) {
	repo := newFakeAuthRepo()
	user := seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	pair, err := svc.Login(context.Background(), "Ravi@Gharinto.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["type"] != "access" {
		t.Errorf("type = %v, want access", claims["type"])
	}

	if pair.RefreshToken == "" {
		t.Fatal("refresh token missing")
	}
	if _, ok := repo.tokens[pair.RefreshToken]; ok {
		t.Error("refresh token stored raw; only the fingerprint should be persisted")
	}
	if _, ok := repo.tokens[token.Fingerprint(pair.RefreshToken)]; !ok {
		t.Error("refresh token fingerprint not stored")
	}
	if pair.ExpiresIn != int64(15*60) {
		t.Errorf("expiresIn = %d, want 900", pair.ExpiresIn)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	first, err := svc.Login(context.Background(), "ravi@gharinto.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh did not rotate the token")
	}

	// The spent token must be dead.
	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("reusing a rotated token: error = %v, want unauthorized", err)
	}
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	repo := newFakeAuthRepo()
	user := seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	raw, err := token.NewOpaque(48)
	if err != nil {
		t.Fatal(err)
	}
	repo.tokens[token.Fingerprint(raw)] = storedToken{
		userID:    user.ID,
		expiresAt: time.Now().Add(-time.Hour),
	}

	_, err = svc.Refresh(context.Background(), raw)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("Refresh error = %v, want unauthorized", err)
	}
	if _, ok := repo.tokens[token.Fingerprint(raw)]; ok {
		t.Error("expired token left in store")
	}
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newAuthService(newFakeAuthRepo())

	_, err := svc.CreateUser(context.Background(), transport.CreateUserRequest{
		Email:    "new@gharinto.com",
		Password: "Sup3r$ecret",
		FullName: "New Staff",
		Roles:    []string{"superuser"},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("CreateUser error = %v, want validation", err)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	_, err := svc.CreateUser(context.Background(), transport.CreateUserRequest{
		Email:    "ravi@gharinto.com",
		Password: "Sup3r$ecret",
		FullName: "Ravi Again",
		Roles:    []string{roles.InteriorDesigner},
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("CreateUser error = %v, want conflict", err)
	}
}

func TestDeactivationRevokesSessions(t *testing.T) {
	repo := newFakeAuthRepo()
	user := seedUser(t, repo, "ravi@gharinto.com", true)
	svc := newAuthService(repo)

	pair, err := svc.Login(context.Background(), "ravi@gharinto.com", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if _, err := svc.SetUserActive(context.Background(), user.ID, false); err != nil {
		t.Fatalf("SetUserActive returned error: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("refresh after deactivation: error = %v, want unauthorized", err)
	}
}
