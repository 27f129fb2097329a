package integration_tests

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"testing"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/controllers"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	TestSuite
	service *service.BdshubService
	admin   *testUser
}

func (suite *UserTestSuite) SetupSuite() {
	svc, err := BdshubTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *UserTestSuite) SetupTest() {
	assert.NoError(suite.T(), clearTables(suite.service))
	var err error
	if suite.admin, err = createUser(suite.service, common.RoleAdmin, 0); err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}
}

func (suite *UserTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTables(suite.service))
}

func (suite *UserTestSuite) register(username string) *service.AuthResult {
	result := &service.AuthResult{}
	rec := suite.doRequest(http.MethodPost, "/auth/register", "", &service.RegisterRequest{
		Username: username,
		Email:    username + "@Example.com",
		Password: testPassword,
		FullName: "Nguyễn Văn A",
		Phone:    "0912345678",
	})
	suite.expect(rec, http.StatusCreated, result)
	return result
}

func (suite *UserTestSuite) TestRegisterAndLogin() {
	result := suite.register("nguyenvana")
	assert.NotEmpty(suite.T(), result.AccessToken)
	assert.NotEmpty(suite.T(), result.RefreshToken)
	if assert.NotNil(suite.T(), result.User) {
		assert.Equal(suite.T(), common.RoleMember, result.User.Role)
		assert.Equal(suite.T(), common.UserStatusActive, result.User.Status)
		assert.True(suite.T(), result.User.WalletBalance.IsZero())
		assert.True(suite.T(), result.User.ProfileCompleted)
		// emails are stored lower case
		assert.Equal(suite.T(), "nguyenvana@example.com", result.User.Email)
	}

	me := &models.User{}
	suite.expect(suite.doRequest(http.MethodGet, "/auth/me", result.AccessToken, nil), http.StatusOK, me)
	assert.Equal(suite.T(), "nguyenvana", me.Username)

	// log in by email
	login := &service.AuthResult{}
	rec := suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{Login: "NguyenVanA@example.com", Password: testPassword})
	suite.expect(rec, http.StatusOK, login)
	assert.NotEmpty(suite.T(), login.AccessToken)

	refreshed := &service.AuthResult{}
	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{RefreshToken: login.RefreshToken})
	suite.expect(rec, http.StatusOK, refreshed)
	assert.NotEmpty(suite.T(), refreshed.AccessToken)

	// an access token is not accepted as a refresh token
	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{RefreshToken: login.AccessToken})
	suite.expectError(rec, http.StatusUnauthorized, 1)

	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{Login: "nguyenvana", Password: "wrong-password"})
	suite.expectError(rec, http.StatusUnauthorized, 1)
	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{})
	suite.expectError(rec, http.StatusBadRequest, 8)
}

func (suite *UserTestSuite) TestRegisterValidation() {
	suite.register("tranthib")
	rec := suite.doRequest(http.MethodPost, "/auth/register", "", &service.RegisterRequest{
		Username: "tranthib",
		Email:    "other@example.com",
		Password: testPassword,
	})
	suite.expectError(rec, http.StatusBadRequest, 10)

	rec = suite.doRequest(http.MethodPost, "/auth/register", "", &service.RegisterRequest{
		Username: "x",
		Email:    "not-an-email",
		Password: "123",
	})
	resp := suite.expectError(rec, http.StatusUnprocessableEntity, 9)
	assert.Contains(suite.T(), resp.Fields, "username")
	assert.Contains(suite.T(), resp.Fields, "email")
	assert.Contains(suite.T(), resp.Fields, "password")
}

func (suite *UserTestSuite) TestAuthRequired() {
	suite.expectError(suite.doRequest(http.MethodGet, "/auth/me", "", nil), http.StatusUnauthorized, 1)
	suite.expectError(suite.doRequest(http.MethodGet, "/auth/me", "not-a-jwt", nil), http.StatusUnauthorized, 1)
	suite.expectError(suite.doRequest(http.MethodGet, "/wallet/balance", "", nil), http.StatusUnauthorized, 1)

	member := suite.register("lethic")
	suite.expectError(suite.doRequest(http.MethodGet, "/admin/users", member.AccessToken, nil), http.StatusForbidden, 5)
	suite.expectError(suite.doRequest(http.MethodGet, "/admin/dashboard/stats", member.AccessToken, nil), http.StatusForbidden, 5)
	suite.expect(suite.doRequest(http.MethodGet, "/admin/dashboard/stats", suite.admin.Token, nil), http.StatusOK, nil)
}

func (suite *UserTestSuite) TestSuspendedUserCannotLogIn() {
	member := suite.register("phamvand")
	user := &models.User{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/status", member.User.ID), suite.admin.Token,
		&controllers.UserStatusBody{Status: common.UserStatusSuspended})
	suite.expect(rec, http.StatusOK, user)
	assert.Equal(suite.T(), common.UserStatusSuspended, user.Status)

	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{Login: "phamvand", Password: testPassword})
	suite.expectError(rec, http.StatusUnauthorized, 1)

	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/status", member.User.ID), suite.admin.Token,
		&controllers.UserStatusBody{Status: "banned"})
	suite.expectError(rec, http.StatusUnprocessableEntity, 9)

	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/status", member.User.ID), suite.admin.Token,
		&controllers.UserStatusBody{Status: common.UserStatusActive})
	suite.expect(rec, http.StatusOK, user)
	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{Login: "phamvand", Password: testPassword})
	suite.expect(rec, http.StatusOK, nil)

	rec = suite.doRequest(http.MethodPut, "/admin/users/missing/status", suite.admin.Token,
		&controllers.UserStatusBody{Status: common.UserStatusActive})
	suite.expectError(rec, http.StatusNotFound, 4)
}

func (suite *UserTestSuite) TestSuspendedTokenIsRejected() {
	member, err := createUser(suite.service, common.RoleMember, 50000)
	assert.NoError(suite.T(), err)
	suite.expect(suite.doRequest(http.MethodGet, "/wallet/balance", member.Token, nil), http.StatusOK, nil)

	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/status", member.ID), suite.admin.Token,
		&controllers.UserStatusBody{Status: common.UserStatusSuspended})
	suite.expect(rec, http.StatusOK, nil)

	// the token issued before the suspension is still signed and unexpired
	rec = suite.doRequest(http.MethodPost, "/member/posts", member.Token, propertyDraft("Căn hộ Quận 7"))
	suite.expectError(rec, http.StatusUnauthorized, 1)
	suite.expectError(suite.doRequest(http.MethodGet, "/wallet/balance", member.Token, nil), http.StatusUnauthorized, 1)
	assert.True(suite.T(), suite.balance(suite.service, member.ID).Equal(postFee))
	_, total, err := suite.service.ListPosts(context.Background(), member.ID, service.PostFilter{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, total)

	// a deleted account loses access the same way
	other, err := createUser(suite.service, common.RoleMember, 0)
	assert.NoError(suite.T(), err)
	_, err = suite.service.DB.NewDelete().Model((*models.User)(nil)).Where("id = ?", other.ID).Exec(context.Background())
	assert.NoError(suite.T(), err)
	suite.expectError(suite.doRequest(http.MethodGet, "/auth/me", other.Token, nil), http.StatusUnauthorized, 1)
}

func (suite *UserTestSuite) TestRoleComesFromTheAccount() {
	admin, err := createUser(suite.service, common.RoleAdmin, 0)
	assert.NoError(suite.T(), err)
	suite.expect(suite.doRequest(http.MethodGet, "/admin/users", admin.Token, nil), http.StatusOK, nil)

	_, err = suite.service.DB.NewUpdate().Model((*models.User)(nil)).
		Set("role = ?", common.RoleMember).
		Where("id = ?", admin.ID).
		Exec(context.Background())
	assert.NoError(suite.T(), err)
	suite.expectError(suite.doRequest(http.MethodGet, "/admin/users", admin.Token, nil), http.StatusForbidden, 5)
}

func (suite *UserTestSuite) TestUpdateProfile() {
	member := suite.register("hoangvane")
	name := "Hoàng Văn E"
	verified := true
	user := &models.User{}
	rec := suite.doRequest(http.MethodPut, "/auth/profile", member.AccessToken, &service.ProfileUpdate{FullName: &name, EmailVerified: &verified})
	suite.expect(rec, http.StatusOK, user)
	assert.Equal(suite.T(), name, user.FullName)
	// members can not verify themselves
	assert.False(suite.T(), user.EmailVerified)

	rec = suite.doRequest(http.MethodPut, "/admin/users/"+member.User.ID, suite.admin.Token, &service.ProfileUpdate{EmailVerified: &verified})
	suite.expect(rec, http.StatusOK, user)
	assert.True(suite.T(), user.EmailVerified)

	bad := "abc"
	rec = suite.doRequest(http.MethodPut, "/auth/profile", member.AccessToken, &service.ProfileUpdate{Phone: &bad})
	suite.expectError(rec, http.StatusUnprocessableEntity, 9)
}

func (suite *UserTestSuite) TestAdminTokenCreatesUsers() {
	body := &controllers.CreateUserBody{
		RegisterRequest: service.RegisterRequest{Username: "quantri", Email: "quantri@example.com"},
		Role:            common.RoleAdmin,
	}
	rec := suite.doRequest(http.MethodPost, "/admin/users", "wrong-token", body)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	// a user token is not the admin token
	rec = suite.doRequest(http.MethodPost, "/admin/users", suite.admin.Token, body)
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	created := &controllers.CreateUserResponse{}
	rec = suite.doRequest(http.MethodPost, "/admin/users", testAdminToken, body)
	suite.expect(rec, http.StatusOK, created)
	assert.Len(suite.T(), created.Password, 20)
	if assert.NotNil(suite.T(), created.User) {
		assert.Equal(suite.T(), common.RoleAdmin, created.User.Role)
	}

	// the generated password works
	login := &service.AuthResult{}
	rec = suite.doRequest(http.MethodPost, "/auth/login", "", &controllers.AuthRequestBody{Login: "quantri", Password: created.Password})
	suite.expect(rec, http.StatusOK, login)
	suite.expect(suite.doRequest(http.MethodGet, "/admin/users", login.AccessToken, nil), http.StatusOK, nil)

	rec = suite.doRequest(http.MethodPost, "/admin/users", testAdminToken, &controllers.CreateUserBody{})
	resp := suite.expectError(rec, http.StatusUnprocessableEntity, 9)
	assert.Contains(suite.T(), resp.Fields, "username")
	assert.Contains(suite.T(), resp.Fields, "email")
}

func (suite *UserTestSuite) TestListUsers() {
	suite.register("vuthif")
	suite.register("dangvang")
	list := &struct {
		Items []models.User `json:"items"`
		Total int           `json:"total"`
	}{}
	suite.expect(suite.doRequest(http.MethodGet, "/admin/users?role=member", suite.admin.Token, nil), http.StatusOK, list)
	assert.Equal(suite.T(), 2, list.Total)
	suite.expect(suite.doRequest(http.MethodGet, "/admin/users?q=vuthi", suite.admin.Token, nil), http.StatusOK, list)
	if assert.Equal(suite.T(), 1, list.Total) {
		assert.Equal(suite.T(), "vuthif", list.Items[0].Username)
	}
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}
