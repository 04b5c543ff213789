package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/models"
)

type UserService struct {
	db     *gorm.DB
	log    *zap.Logger
	mailer Mailer
}

func NewUserService(db *gorm.DB, log *zap.Logger, mailer Mailer) *UserService {
	return &UserService{db: db, log: log, mailer: mailer}
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Password  string `json:"password" binding:"required,min=6"`
}

// Register creates a customer account. The welcome email is best-effort; a
// mail failure never fails the registration.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, validationf("User with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:        uuid.NewString(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Phone:     input.Phone,
		Address:   input.Address,
		Password:  string(hash),
		Role:      models.RoleCustomer,
		Status:    models.StatusActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(user.Email, user.FullName()); err != nil {
			s.log.Warn("welcome email failed",
				zap.String("email", user.Email), zap.Error(err))
		}
	}
	return &user, nil
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *UserService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{Message: "Invalid email or password"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, &AuthError{Message: "Invalid email or password"}
	}
	if user.Status != models.StatusActive {
		return nil, &AuthError{Message: "Account is deactivated"}
	}
	return &user, nil
}

func (s *UserService) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func (s *UserService) UpdateProfile(id string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (s *UserService) ChangePassword(id string, input ChangePasswordInput) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return &AuthError{Message: "Current password is incorrect"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(user).UpdateColumn("password", string(hash)).Error
}

type UserFilter struct {
	Page   int
	Limit  int
	Search string
	Role   string
	Status string
}

func (s *UserService) ListUsers(f UserFilter) ([]models.User, Pagination, error) {
	page, limit := normalizePage(f.Page, f.Limit, 20)

	query := s.db.Model(&models.User{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var users []models.User
	if err := query.
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, Pagination{}, err
	}
	return users, paginate(page, limit, total), nil
}

// UpdateUserStatus activates or deactivates an account.
func (s *UserService) UpdateUserStatus(id, status string) (*models.User, error) {
	if status != models.StatusActive && status != models.StatusInactive {
		return nil, validationf("Invalid status. Must be active or inactive")
	}
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type UserStats struct {
	TotalUsers     int64          `json:"totalUsers"`
	ActiveUsers    int64          `json:"activeUsers"`
	InactiveUsers  int64          `json:"inactiveUsers"`
	AdminUsers     int64          `json:"adminUsers"`
	NewThisMonth   int64          `json:"newThisMonth"`
	MonthlySignups []MonthlyCount `json:"monthlySignups"`
}

func (s *UserService) GetUserStats() (*UserStats, error) {
	stats := &UserStats{}
	users := s.db.Model(&models.User{})

	if err := users.Session(&gorm.Session{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := users.Session(&gorm.Session{}).Where("status = ?", models.StatusActive).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := users.Session(&gorm.Session{}).Where("status = ?", models.StatusInactive).Count(&stats.InactiveUsers).Error; err != nil {
		return nil, err
	}
	if err := users.Session(&gorm.Session{}).Where("role = ?", models.RoleAdmin).Count(&stats.AdminUsers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := users.Session(&gorm.Session{}).Where("created_at >= ?", monthStart).Count(&stats.NewThisMonth).Error; err != nil {
		return nil, err
	}

	signups, err := s.monthlySignups(now.Year())
	if err != nil {
		return nil, err
	}
	stats.MonthlySignups = signups
	return stats, nil
}

// monthlySignups buckets this year's registrations per month in Go, keeping
// the query portable across dialects.
func (s *UserService) monthlySignups(year int) ([]MonthlyCount, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	var rows []struct {
		CreatedAt time.Time
	}
	if err := s.db.Model(&models.User{}).
		Select("created_at").
		Where("created_at >= ?", yearStart).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	var buckets [12]int64
	for _, row := range rows {
		buckets[row.CreatedAt.Month()-1]++
	}

	counts := make([]MonthlyCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		counts = append(counts, MonthlyCount{
			Month: m.String()[:3],
			Count: buckets[m-1],
		})
	}
	return counts, nil
}
