package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/technocomputers/storefront-api/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	rec := &mailRecorder{}
	svc := NewUserService(db, testLogger(t), rec)

	user, err := svc.Register(RegisterInput{
		FirstName: "Ravi",
		LastName:  "Nair",
		Email:     "Ravi.Nair@Example.com",
		Password:  "s3cretpw",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi.nair@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cretpw", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cretpw")))
	assert.Equal(t, []string{"ravi.nair@example.com"}, rec.welcomes)

	logged, err := svc.Login(LoginInput{Email: "ravi.nair@example.com", Password: "s3cretpw"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login(LoginInput{Email: "ravi.nair@example.com", Password: "wrong"})
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Invalid email or password", ae.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger(t), nil)

	_, err := svc.Register(RegisterInput{
		FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "password",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{
		FirstName: "C", LastName: "D", Email: "DUP@example.com", Password: "password",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "User with this email already exists", ve.Message)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	db := newTestDB(t)
	rec := &mailRecorder{failNext: true}
	svc := NewUserService(db, testLogger(t), rec)

	user, err := svc.Register(RegisterInput{
		FirstName: "A", LastName: "B", Email: "a@example.com", Password: "password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, rec.welcomes)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger(t), nil)

	user, err := svc.Register(RegisterInput{
		FirstName: "A", LastName: "B", Email: "off@example.com", Password: "password",
	})
	require.NoError(t, err)
	_, err = svc.UpdateUserStatus(user.ID, models.StatusInactive)
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Email: "off@example.com", Password: "password"})
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Account is deactivated", ae.Message)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger(t), nil)

	user, err := svc.Register(RegisterInput{
		FirstName: "A", LastName: "B", Email: "pw@example.com", Password: "oldpassword",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, ChangePasswordInput{
		CurrentPassword: "nope", NewPassword: "newpassword",
	})
	var ae *AuthError
	require.ErrorAs(t, err, &ae)

	require.NoError(t, svc.ChangePassword(user.ID, ChangePasswordInput{
		CurrentPassword: "oldpassword", NewPassword: "newpassword",
	}))

	_, err = svc.Login(LoginInput{Email: "pw@example.com", Password: "newpassword"})
	require.NoError(t, err)
}

func TestListUsersSearchAndStatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger(t), nil)

	for _, in := range []RegisterInput{
		{FirstName: "Meera", LastName: "Das", Email: "meera@example.com", Password: "password"},
		{FirstName: "Arjun", LastName: "Pillai", Email: "arjun@example.com", Password: "password"},
	} {
		_, err := svc.Register(in)
		require.NoError(t, err)
	}

	found, pagination, err := svc.ListUsers(UserFilter{Search: "meera"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Meera", found[0].FirstName)
	assert.EqualValues(t, 1, pagination.TotalItems)

	_, err = svc.UpdateUserStatus(found[0].ID, models.StatusInactive)
	require.NoError(t, err)

	inactive, _, err := svc.ListUsers(UserFilter{Status: models.StatusInactive})
	require.NoError(t, err)
	assert.Len(t, inactive, 1)

	_, err = svc.UpdateUserStatus(found[0].ID, "banned")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUserStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger(t), nil)

	admin := seedUser(t, db)
	require.NoError(t, db.Model(admin).Update("role", models.RoleAdmin).Error)
	seedUser(t, db)

	stats, err := svc.GetUserStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.ActiveUsers)
	assert.EqualValues(t, 1, stats.AdminUsers)
	assert.EqualValues(t, 2, stats.NewThisMonth)
	assert.Len(t, stats.MonthlySignups, 12)
}
