package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newUserTestApp wires a fiber app around a UserService backed by the mock,
// with the given identity injected the way the auth middleware would.
func newUserTestApp(mockRepo *MockUserRepository, userID uint, role models.Role) *fiber.App {
	app := fiber.New()
	s := &Server{userService: service.NewUserService(mockRepo)}

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("role", role)
		return c.Next()
	})
	app.Get("/users/me", s.GetMyProfile)
	app.Put("/users/me", s.UpdateMyProfile)
	app.Put("/users/:id/role", s.AdminRequired(), s.ChangeUserRole)
	app.Put("/users/:id", s.UpdateUserProfile)
	app.Get("/users/:id", s.GetUserProfile)
	return app
}

func TestGetUserProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 1, models.RoleUser)

	tests := []struct {
		name           string
		userIDParam    string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name:        "Success",
			userIDParam: "1",
			mockSetup: func() {
				mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "testuser"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			userIDParam:    "abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Not Found",
			userIDParam: "99",
			mockSetup: func() {
				mockRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("User", 99))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.userIDParam, nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetMyProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 1, models.RoleUser)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "me"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateUserProfile_OtherUserForbidden(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 2, models.RoleUser)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "victim"}, nil)

	body, _ := json.Marshal(map[string]string{"display_name": "Hijacked"})
	req := httptest.NewRequest(http.MethodPut, "/users/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUserProfile_AdminAllowed(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 9, models.RoleAdmin)

	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "target"}, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]string{"display_name": "Moderated"})
	req := httptest.NewRequest(http.MethodPut, "/users/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangeUserRole_NonAdminBlocked(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 2, models.RoleUser)

	body, _ := json.Marshal(map[string]string{"role": "admin"})
	req := httptest.NewRequest(http.MethodPut, "/users/2/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeUserRole_AdminPromotes(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 9, models.RoleAdmin)

	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(&models.User{ID: 2, Username: "target", Role: models.RoleUser}, nil)
	mockRepo.On("UpdateRole", mock.Anything, uint(2), models.RoleAdmin).Return(nil)

	body, _ := json.Marshal(map[string]string{"role": "admin"})
	req := httptest.NewRequest(http.MethodPut, "/users/2/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangeUserRole_AdminCannotDowngradeSelf(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 9, models.RoleAdmin)

	mockRepo.On("GetByID", mock.Anything, uint(9)).Return(&models.User{ID: 9, Username: "boss", Role: models.RoleAdmin}, nil)

	body, _ := json.Marshal(map[string]string{"role": "user"})
	req := httptest.NewRequest(http.MethodPut, "/users/9/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeUserRole_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	app := newUserTestApp(mockRepo, 9, models.RoleAdmin)

	body, _ := json.Marshal(map[string]string{"role": "overlord"})
	req := httptest.NewRequest(http.MethodPut, "/users/2/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
