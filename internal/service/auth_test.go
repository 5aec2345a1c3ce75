package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hoaivu016/abc-backoffice/internal/models"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/service"
)

type fakeUserRemote struct {
	users map[string]models.User
}

func (r *fakeUserRemote) UserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRemote) CreateUser(_ context.Context, u models.User) error {
	if r.users == nil {
		r.users = map[string]models.User{}
	}
	r.users[u.Email] = u
	return nil
}

func TestAuth_RegisterLoginRoundTrip(t *testing.T) {
	users := &fakeUserRemote{}
	svc := service.NewAuthService(users, []byte("test-secret"), time.Hour)

	u, err := svc.Register(context.Background(), "an@example.com", "passw0rd", "An")
	if err != nil {
		t.Fatal(err)
	}
	if u.PasswordHash == "passw0rd" {
		t.Fatal("password must be stored hashed")
	}

	token, err := svc.Login(context.Background(), "an@example.com", "passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := svc.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if sub != u.ID {
		t.Errorf("token subject = %q; want %q", sub, u.ID)
	}
}

func TestAuth_RegisterRejectsWeakPassword(t *testing.T) {
	svc := service.NewAuthService(&fakeUserRemote{}, []byte("s"), time.Hour)

	for _, password := range []string{"short1", "onlyletters", "12345678"} {
		if _, err := svc.Register(context.Background(), "x@y.z", password, ""); err == nil {
			t.Errorf("password %q must be rejected", password)
		}
	}
}

func TestAuth_LoginFailures(t *testing.T) {
	users := &fakeUserRemote{}
	svc := service.NewAuthService(users, []byte("test-secret"), time.Hour)
	if _, err := svc.Register(context.Background(), "an@example.com", "passw0rd", "An"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(context.Background(), "nobody@example.com", "passw0rd")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v; want ErrInvalidCredentials", err)
	}
	_, err = svc.Login(context.Background(), "an@example.com", "wrongpass1")
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v; want ErrInvalidCredentials", err)
	}
}

func TestAuth_ParseTokenRejectsForeignSecret(t *testing.T) {
	users := &fakeUserRemote{}
	issuer := service.NewAuthService(users, []byte("secret-a"), time.Hour)
	verifier := service.NewAuthService(users, []byte("secret-b"), time.Hour)

	if _, err := issuer.Register(context.Background(), "an@example.com", "passw0rd", "An"); err != nil {
		t.Fatal(err)
	}
	token, err := issuer.Login(context.Background(), "an@example.com", "passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}
