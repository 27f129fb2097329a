package integration_tests

import (
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

type SupportTestSuite struct {
	TestSuite
	service *service.BdshubService
	admin   *testUser
	member  *testUser
}

func (suite *SupportTestSuite) SetupSuite() {
	svc, err := BdshubTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *SupportTestSuite) SetupTest() {
	assert.NoError(suite.T(), clearTables(suite.service))
	var err error
	if suite.admin, err = createUser(suite.service, common.RoleAdmin, 0); err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}
	if suite.member, err = createUser(suite.service, common.RoleMember, 0); err != nil {
		log.Fatalf("Error creating member: %v", err)
	}
}

func (suite *SupportTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTables(suite.service))
}

func (suite *SupportTestSuite) TestTickets() {
	ticket := &models.Ticket{}
	rec := suite.doRequest(http.MethodPost, "/tickets", "", &service.TicketInput{
		Name:    "Khách hàng",
		Email:   "khach@example.com",
		Subject: "Hỏi giá",
		Message: "Căn hộ còn không?",
	})
	suite.expect(rec, http.StatusCreated, ticket)
	assert.Equal(suite.T(), common.TicketStatusOpen, ticket.Status)
	assert.Equal(suite.T(), common.TicketPriorityMedium, ticket.Priority)

	suite.expectError(suite.doRequest(http.MethodGet, "/tickets", suite.member.Token, nil), http.StatusForbidden, 5)

	resolved := "resolved"
	updated := &models.Ticket{}
	suite.expect(suite.doRequest(http.MethodPut, "/tickets/"+ticket.ID, suite.admin.Token, &service.TicketPatch{Status: &resolved}), http.StatusOK, updated)
	assert.Equal(suite.T(), "resolved", updated.Status)

	tickets := []models.Ticket{}
	suite.expect(suite.doRequest(http.MethodGet, "/tickets?status=resolved", suite.admin.Token, nil), http.StatusOK, &tickets)
	assert.Len(suite.T(), tickets, 1)
	suite.expect(suite.doRequest(http.MethodGet, "/tickets?status=open", suite.admin.Token, nil), http.StatusOK, &tickets)
	assert.Len(suite.T(), tickets, 0)

	rec = suite.doRequest(http.MethodPost, "/tickets", "", &service.TicketInput{Name: "x", Email: "bad"})
	suite.expectError(rec, http.StatusUnprocessableEntity, 9)

	suite.expect(suite.doRequest(http.MethodDelete, "/tickets/"+ticket.ID, suite.admin.Token, nil), http.StatusOK, nil)
	suite.expectError(suite.doRequest(http.MethodGet, "/tickets/"+ticket.ID, suite.admin.Token, nil), http.StatusNotFound, 4)
}

func (suite *SupportTestSuite) TestMessages() {
	msg := &models.Message{}
	rec := suite.doRequest(http.MethodPost, "/messages", suite.member.Token, &service.MessageInput{
		ToUserID: suite.admin.ID,
		ToType:   common.RoleAdmin,
		Message:  "Tôi đã chuyển khoản",
	})
	suite.expect(rec, http.StatusCreated, msg)
	assert.Equal(suite.T(), suite.member.ID, msg.FromUserID)
	assert.Equal(suite.T(), common.RoleMember, msg.FromType)
	assert.Equal(suite.T(), "text", msg.MessageType)

	unread := &controllers.UnreadCountResponse{}
	suite.expect(suite.doRequest(http.MethodGet, "/admin/messages/unread", suite.admin.Token, nil), http.StatusOK, unread)
	assert.Equal(suite.T(), 1, unread.UnreadCount)

	// only the recipient can mark it read
	suite.expectError(suite.doRequest(http.MethodPut, "/messages/"+msg.ID+"/read", suite.member.Token, nil), http.StatusNotFound, 4)
	suite.expect(suite.doRequest(http.MethodPut, "/messages/"+msg.ID+"/read", suite.admin.Token, nil), http.StatusOK, nil)
	suite.expect(suite.doRequest(http.MethodGet, "/admin/messages/unread", suite.admin.Token, nil), http.StatusOK, unread)
	assert.Equal(suite.T(), 0, unread.UnreadCount)

	msgs := []models.Message{}
	suite.expect(suite.doRequest(http.MethodGet, "/messages", suite.member.Token, nil), http.StatusOK, &msgs)
	assert.Len(suite.T(), msgs, 1)

	rec = suite.doRequest(http.MethodPost, "/messages", suite.member.Token, &service.MessageInput{
		ToUserID: "missing",
		ToType:   common.RoleAdmin,
		Message:  "hello",
	})
	suite.expectError(rec, http.StatusNotFound, 4)
}

func (suite *SupportTestSuite) TestAnalytics() {
	for _, view := range []service.PageViewInput{
		{PagePath: "/properties", SessionID: "s1"},
		{PagePath: "/properties", SessionID: "s2"},
		{PagePath: "/properties", SessionID: "s1"},
		{PagePath: "/news", SessionID: "s1"},
	} {
		view := view
		suite.expect(suite.doRequest(http.MethodPost, "/analytics/pageview", "", &view), http.StatusCreated, nil)
	}
	suite.expectError(suite.doRequest(http.MethodPost, "/analytics/pageview", "", &service.PageViewInput{}), http.StatusUnprocessableEntity, 9)

	pages := []service.PopularPage{}
	suite.expect(suite.doRequest(http.MethodGet, "/analytics/popular-pages", suite.admin.Token, nil), http.StatusOK, &pages)
	if assert.Len(suite.T(), pages, 2) {
		assert.Equal(suite.T(), "/properties", pages[0].PagePath)
		assert.Equal(suite.T(), 3, pages[0].Views)
		assert.Equal(suite.T(), 2, pages[0].UniqueVisitors)
	}

	points := []service.TrafficPoint{}
	suite.expect(suite.doRequest(http.MethodGet, "/analytics/traffic?period=day", suite.admin.Token, nil), http.StatusOK, &points)
	if assert.Len(suite.T(), points, 1) {
		assert.Equal(suite.T(), 4, points[0].Views)
		assert.Equal(suite.T(), 2, points[0].UniqueVisitors)
	}
	suite.expectError(suite.doRequest(http.MethodGet, "/analytics/traffic?period=decade", suite.admin.Token, nil), http.StatusBadRequest, 8)

	stats := &service.PublicStats{}
	suite.expect(suite.doRequest(http.MethodGet, "/stats", "", nil), http.StatusOK, stats)
	assert.Equal(suite.T(), 4, stats.TotalPageviews)
	assert.Equal(suite.T(), 2, stats.TodayUniqueVisitors)
}

func (suite *SupportTestSuite) TestSettings() {
	settings := &models.SiteSettings{}
	suite.expect(suite.doRequest(http.MethodGet, "/settings", "", nil), http.StatusOK, settings)
	assert.Equal(suite.T(), service.DefaultSiteSettings().SiteTitle, settings.SiteTitle)
	assert.Len(suite.T(), settings.ContactButtons, 3)

	title := "Nhà Đất Việt"
	suite.expectError(suite.doRequest(http.MethodPut, "/admin/settings", suite.member.Token, &service.SettingsPatch{SiteTitle: &title}), http.StatusForbidden, 5)
	suite.expect(suite.doRequest(http.MethodPut, "/admin/settings", suite.admin.Token, &service.SettingsPatch{SiteTitle: &title}), http.StatusOK, settings)
	assert.Equal(suite.T(), title, settings.SiteTitle)
	// untouched fields keep their value
	assert.Equal(suite.T(), service.DefaultSiteSettings().BankName, settings.BankName)

	suite.expect(suite.doRequest(http.MethodGet, "/settings", "", nil), http.StatusOK, settings)
	assert.Equal(suite.T(), title, settings.SiteTitle)
}

func TestSupportTestSuite(t *testing.T) {
	suite.Run(t, new(SupportTestSuite))
}
