package usecase_test

import (
	"context"
	"testing"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
	"github.com/iho/gobudget/internal/usecase/mocks"
)

func newUserUseCase() (*usecase.UserUseCase, *mocks.MockUserRepository) {
	userRepo := mocks.NewMockUserRepository()
	uc := usecase.NewUserUseCase(userRepo, mocks.NewMockAuditRepository(), mocks.NewMockIDGenerator(), mocks.NewMockClock(fixedTime()))
	return uc, userRepo
}

func TestUserUseCase_Register(t *testing.T) {
	uc, _ := newUserUseCase()

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != domain.RoleUser {
		t.Errorf("expected user role, got %s", user.Role)
	}

	if user.HashedPassword != "" {
		t.Error("hashed password must not be returned")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := uc.Register(context.Background(), usecase.RegisterInput{
			Email:    "alice@example.com",
			Name:     "Alice Again",
			Password: "Sup3rSecret",
		})
		if err != domain.ErrUserExists {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := uc.Register(context.Background(), usecase.RegisterInput{
			Email:    "bob@example.com",
			Name:     "Bob",
			Password: "short",
		})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestUserUseCase_Authenticate(t *testing.T) {
	uc, userRepo := newUserUseCase()

	registered, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "alice@example.com",
			Password: "Sup3rSecret",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected %s, got %s", registered.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "alice@example.com",
			Password: "WrongPass1",
		})
		if err != domain.ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "nobody@example.com",
			Password: "Sup3rSecret",
		})
		if err != domain.ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		stored, err := userRepo.GetByID(context.Background(), registered.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stored.Active = false
		if err := userRepo.Update(context.Background(), stored); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err = uc.Authenticate(context.Background(), usecase.AuthenticateInput{
			Email:    "alice@example.com",
			Password: "Sup3rSecret",
		})
		if err != domain.ErrUserInactive {
			t.Errorf("expected ErrUserInactive, got %v", err)
		}
	})
}

func TestUserUseCase_UpdateUser(t *testing.T) {
	uc, _ := newUserUseCase()

	registered, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "Sup3rSecret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "Alice B"
	password := "N3wPassword"
	if _, err := uc.UpdateUser(context.Background(), usecase.UpdateUserInput{
		ID:       registered.ID,
		Name:     &name,
		Password: &password,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The old password no longer works, the new one does.
	if _, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	}); err != domain.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized with old password, got %v", err)
	}

	user, err := uc.Authenticate(context.Background(), usecase.AuthenticateInput{
		Email:    "alice@example.com",
		Password: "N3wPassword",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Name != "Alice B" {
		t.Errorf("expected updated name, got %s", user.Name)
	}
}
