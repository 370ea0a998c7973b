package services

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/promptlover/promptlover-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 40
	minPasswordLen = 6
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	Register(username, password string) (models.User, error)
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	var liked sql.NullString
	row := s.db.QueryRow("SELECT id, username, liked_prompts_json, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &liked, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return models.User{}, err
	}
	user.LikedPromptsJSON = liked.String
	user.PrepareForAPI()
	return user, nil
}

// GetUserByUsername retrieves a single user by username, including the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	var liked sql.NullString
	row := s.db.QueryRow("SELECT id, username, password_hash, liked_prompts_json, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &liked, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		return models.User{}, err
	}
	user.LikedPromptsJSON = liked.String
	user.PrepareForAPI()
	return user, nil
}

// Register validates credentials, hashes the password and creates the account.
// Usernames are trimmed and must be unique.
func (s *UserService) Register(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: please provide username and password", ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return models.User{}, fmt.Errorf("%w: username cannot be more than %d characters", ErrValidation, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	if _, err := s.GetUserByUsername(username); err == nil {
		return models.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		LikedPrompts: []string{},
	}
	user.PrepareForSave()

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password_hash, liked_prompts_json) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.PasswordHash, user.LikedPromptsJSON)
	if err != nil {
		// The SELECT above races with concurrent registrations; the UNIQUE
		// constraint is the backstop.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// setLikedPrompts overwrites a user's liked prompt list. Used by the prompt
// service when a counters update changes a prompt's likedBy set.
func (s *UserService) setLikedPrompts(userID string, likedPrompts []string) error {
	user := models.User{LikedPrompts: likedPrompts}
	user.PrepareForSave()
	_, err := s.db.Exec("UPDATE users SET liked_prompts_json = ? WHERE id = ?", user.LikedPromptsJSON, userID)
	return err
}
