package service

import (
	"context"
	"testing"
	"time"

	"github.com/fieldserv/dms-api/internal/domain/entity"
	"github.com/fieldserv/dms-api/internal/domain/enum"
	"github.com/fieldserv/dms-api/pkg/apperror"
	"github.com/fieldserv/dms-api/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *utils.JWTManager, uuid.UUID) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("booker123"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tenantID := uuid.New()
	userRepo := &fakeUserRepo{users: []entity.User{{
		ID:        uuid.New(),
		Username:  "booker1",
		Password:  string(hash),
		FirstName: "Ali",
		LastName:  "Raza",
		Role:      enum.RoleBooker,
		TenantID:  &tenantID,
	}}}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(userRepo, jwtManager), userRepo, jwtManager, tenantID
}

func TestLogin(t *testing.T) {
	svc, repo, jwtManager, tenantID := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "booker1", "booker123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("login issued empty tokens")
	}
	if result.User.ID != repo.users[0].ID {
		t.Error("login returned the wrong user")
	}

	// The access token carries the principal the middleware will build.
	claims, err := jwtManager.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.Role != enum.RoleBooker {
		t.Errorf("token role = %q, want booker", claims.Role)
	}
	if claims.TenantID == nil || *claims.TenantID != tenantID {
		t.Error("token missing the home tenant")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "booker1", "nope"},
		{"unknown user", "ghost", "booker123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !apperror.IsKind(err, apperror.KindUnauthorized) {
				t.Errorf("Login() error = %v, want unauthorized", err)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	svc, repo, _, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), "booker1", "booker123")
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("refresh issued an empty access token")
	}
	if refreshed.User.ID != repo.users[0].ID {
		t.Error("refresh resolved the wrong user")
	}

	if _, err := svc.Refresh(context.Background(), "not-a-token"); !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Errorf("Refresh(garbage) error = %v, want unauthorized", err)
	}
}
