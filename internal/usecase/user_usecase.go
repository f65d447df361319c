package usecase

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobudget/internal/domain"
)

// UserUseCase handles registration, authentication and profile updates.
type UserUseCase struct {
	userRepo  UserRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	clock     Clock
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, auditRepo AuditRepository, idGen IDGenerator, clock Clock) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
		clock:     clock,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new user with a bcrypt-hashed password. New users
// always get the regular role; admins are promoted out of band.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: hashedPassword,
		Role:           domain.RoleUser,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.audit(ctx, user.ID, domain.AuditActionUserRegister, user.ID)

	// Never return the hash to callers.
	user.HashedPassword = ""

	return user, nil
}

// AuthenticateInput represents credentials to verify.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials. Unknown emails and wrong
// passwords produce the same error.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	uc.audit(ctx, user.ID, domain.AuditActionUserLogin, user.ID)

	user.HashedPassword = ""

	return user, nil
}

// GetUser retrieves a user by id.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateUserInput represents input for updating a user profile.
type UpdateUserInput struct {
	ID       string
	Name     *string
	Password *string
}

// UpdateUser updates the user's name or password.
func (uc *UserUseCase) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}

		hashedPassword, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}

		user.HashedPassword = hashedPassword
	}

	user.UpdatedAt = uc.clock.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

func (uc *UserUseCase) audit(ctx context.Context, userID string, action domain.AuditAction, resourceID string) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       userID,
		Action:       string(action),
		ResourceType: "user",
		ResourceID:   resourceID,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    uc.clock.Now(),
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
