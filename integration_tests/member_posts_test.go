package integration_tests

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/controllers"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MemberPostTestSuite struct {
	TestSuite
	service *service.BdshubService
	admin   *testUser
}

func (suite *MemberPostTestSuite) SetupSuite() {
	svc, err := BdshubTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *MemberPostTestSuite) SetupTest() {
	assert.NoError(suite.T(), clearTables(suite.service))
	admin, err := createUser(suite.service, common.RoleAdmin, 0)
	if err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}
	suite.admin = admin
}

func (suite *MemberPostTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTables(suite.service))
}

func (suite *MemberPostTestSuite) member(balance int64) *testUser {
	user, err := createUser(suite.service, common.RoleMember, balance)
	assert.NoError(suite.T(), err)
	return user
}

func (suite *MemberPostTestSuite) submit(user *testUser, payload *service.PostPayload) *models.MemberPost {
	post := &models.MemberPost{}
	suite.expect(suite.doRequest(http.MethodPost, "/member/posts", user.Token, payload), http.StatusCreated, post)
	return post
}

func (suite *MemberPostTestSuite) approve(postID string, featured bool) *models.MemberPost {
	post := &models.MemberPost{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/posts/%s/approve", postID), suite.admin.Token,
		&controllers.ApproveRequestBody{Featured: featured})
	suite.expect(rec, http.StatusOK, post)
	return post
}

func (suite *MemberPostTestSuite) reject(postID, reason string) *models.MemberPost {
	post := &models.MemberPost{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/posts/%s/reject", postID), suite.admin.Token,
		&controllers.RejectRequestBody{RejectionReason: reason})
	suite.expect(rec, http.StatusOK, post)
	return post
}

func (suite *MemberPostTestSuite) TestSubmitApproveAndPromote() {
	user := suite.member(50000)

	// exactly the fee: the submission succeeds and empties the wallet
	draft := suite.submit(user, propertyDraft("Căn hộ Quận 1"))
	assert.Equal(suite.T(), common.PostStatusPending, draft.Status)
	assert.True(suite.T(), draft.FeePaid.Equal(postFee))
	assert.True(suite.T(), suite.balance(suite.service, user.ID).IsZero())

	fees := []models.Transaction{}
	err := suite.service.DB.NewSelect().Model(&fees).
		Where("user_id = ?", user.ID).
		Where("transaction_type = ?", common.TransactionTypePostFee).
		Scan(context.Background())
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), fees, 1)
	assert.True(suite.T(), fees[0].Amount.Equal(postFee))
	assert.Equal(suite.T(), common.TransactionStatusCompleted, fees[0].Status)
	assert.Equal(suite.T(), draft.ID, fees[0].ReferenceID)

	approved := suite.approve(draft.ID, true)
	assert.Equal(suite.T(), common.PostStatusApproved, approved.Status)
	assert.Equal(suite.T(), suite.admin.ID, approved.ApprovedBy)
	assert.False(suite.T(), approved.ApprovedAt.IsZero())
	assert.WithinDuration(suite.T(), approved.ApprovedAt.Time.Add(30*24*time.Hour), approved.ExpiresAt.Time, time.Second)

	prop := &models.Property{}
	err = suite.service.DB.NewSelect().Model(prop).Where("id = ?", draft.ID).Scan(context.Background())
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), prop.Featured)
	assert.Equal(suite.T(), int64(0), prop.Views)
	assert.Equal(suite.T(), "Căn hộ Quận 1", prop.Title)
	assert.Equal(suite.T(), common.PropertyStatusForSale, prop.Status)

	// approving twice fails and does not create a second listing
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/posts/%s/approve", draft.ID), suite.admin.Token, &controllers.ApproveRequestBody{})
	suite.expectError(rec, http.StatusBadRequest, 3)
	count, err := suite.service.DB.NewSelect().Model((*models.Property)(nil)).Where("id = ?", draft.ID).Count(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)

	// the wallet is empty now, a second draft is refused without side effects
	rec = suite.doRequest(http.MethodPost, "/member/posts", user.Token, propertyDraft("Nhà phố Quận 3"))
	errResp := suite.expectError(rec, http.StatusBadRequest, 2)
	assert.Equal(suite.T(), "Insufficient balance. Required: 50000, Available: 0", errResp.Message)
	assert.Equal(suite.T(), 1, suite.countEntries(suite.service, user.ID, common.TransactionTypePostFee))
	posts, total, err := suite.service.ListPosts(context.Background(), user.ID, service.PostFilter{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, total)
	assert.Len(suite.T(), posts, 1)

	suite.assertLedgerMatchesWallet(suite.service, user.ID)
}

func (suite *MemberPostTestSuite) TestBalanceOneBelowFee() {
	user := suite.member(49999)
	rec := suite.doRequest(http.MethodPost, "/member/posts", user.Token, propertyDraft("Đất nền"))
	suite.expectError(rec, http.StatusBadRequest, 2)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(decimal.NewFromInt(49999)))
	assert.Equal(suite.T(), 0, suite.countEntries(suite.service, user.ID, common.TransactionTypePostFee))
	_, total, err := suite.service.ListPosts(context.Background(), user.ID, service.PostFilter{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, total)
}

func (suite *MemberPostTestSuite) TestRejectRefundsAndAllowsEdit() {
	user := suite.member(120000)
	draft := suite.submit(user, propertyDraft("Biệt thự Thảo Điền"))
	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(decimal.NewFromInt(70000)))

	rejected := suite.reject(draft.ID, "incomplete info")
	assert.Equal(suite.T(), common.PostStatusRejected, rejected.Status)
	assert.Equal(suite.T(), "incomplete info", rejected.RejectionReason)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(decimal.NewFromInt(120000)))
	assert.Equal(suite.T(), 1, suite.countEntries(suite.service, user.ID, common.TransactionTypeRefund))
	suite.assertLedgerMatchesWallet(suite.service, user.ID)

	// a rejected draft cannot be rejected again
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/posts/%s/reject", draft.ID), suite.admin.Token,
		&controllers.RejectRequestBody{RejectionReason: "again"})
	suite.expectError(rec, http.StatusBadRequest, 3)
	assert.Equal(suite.T(), 1, suite.countEntries(suite.service, user.ID, common.TransactionTypeRefund))

	// the author edits it back into review, without a second fee
	payload := propertyDraft("Biệt thự Thảo Điền, sổ hồng")
	edited := &models.MemberPost{}
	suite.expect(suite.doRequest(http.MethodPut, "/member/posts/"+draft.ID, user.Token, payload), http.StatusOK, edited)
	assert.Equal(suite.T(), common.PostStatusPending, edited.Status)
	assert.Empty(suite.T(), edited.RejectionReason)
	assert.Equal(suite.T(), "Biệt thự Thảo Điền, sổ hồng", edited.Title)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(decimal.NewFromInt(120000)))
}

func (suite *MemberPostTestSuite) TestRejectRequiresReason() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Căn hộ"))
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/posts/%s/reject", draft.ID), suite.admin.Token, &controllers.RejectRequestBody{})
	errResp := suite.expectError(rec, http.StatusUnprocessableEntity, 9)
	assert.Contains(suite.T(), errResp.Fields, "rejection_reason")
}

func (suite *MemberPostTestSuite) TestWithdrawKeepsFee() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Shophouse"))
	suite.expect(suite.doRequest(http.MethodDelete, "/member/posts/"+draft.ID, user.Token, nil), http.StatusOK, nil)
	suite.expectError(suite.doRequest(http.MethodGet, "/member/posts/"+draft.ID, user.Token, nil), http.StatusNotFound, 4)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).IsZero())
	suite.assertLedgerMatchesWallet(suite.service, user.ID)
}

func (suite *MemberPostTestSuite) TestApprovedDraftIsLocked() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Văn phòng"))
	suite.approve(draft.ID, false)

	suite.expectError(suite.doRequest(http.MethodPut, "/member/posts/"+draft.ID, user.Token, propertyDraft("x")), http.StatusBadRequest, 3)
	suite.expectError(suite.doRequest(http.MethodDelete, "/member/posts/"+draft.ID, user.Token, nil), http.StatusBadRequest, 3)
}

func (suite *MemberPostTestSuite) TestOtherAuthorsDraft() {
	owner := suite.member(50000)
	other := suite.member(0)
	draft := suite.submit(owner, propertyDraft("Căn hộ"))

	suite.expectError(suite.doRequest(http.MethodGet, "/member/posts/"+draft.ID, other.Token, nil), http.StatusForbidden, 5)
	suite.expectError(suite.doRequest(http.MethodPut, "/member/posts/"+draft.ID, other.Token, propertyDraft("x")), http.StatusForbidden, 5)
	suite.expectError(suite.doRequest(http.MethodDelete, "/member/posts/"+draft.ID, other.Token, nil), http.StatusForbidden, 5)
}

func (suite *MemberPostTestSuite) TestMissingTypeSpecificFields() {
	user := suite.member(50000)
	payload := propertyDraft("Căn hộ")
	payload.City = ""
	payload.Area = nil
	errResp := suite.expectError(suite.doRequest(http.MethodPost, "/member/posts", user.Token, payload), http.StatusUnprocessableEntity, 9)
	assert.Contains(suite.T(), errResp.Fields, "city")
	assert.Contains(suite.T(), errResp.Fields, "area")
	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(postFee))
}

func (suite *MemberPostTestSuite) TestPendingQueue() {
	user := suite.member(150000)
	first := suite.submit(user, propertyDraft("Một"))
	suite.submit(user, propertyDraft("Hai"))
	suite.approve(first.ID, false)

	list := &struct {
		Items []service.PostWithAuthor `json:"items"`
		Total int                      `json:"total"`
	}{}
	suite.expect(suite.doRequest(http.MethodGet, "/admin/posts/pending", suite.admin.Token, nil), http.StatusOK, list)
	assert.Equal(suite.T(), 1, list.Total)
	assert.Equal(suite.T(), "Hai", list.Items[0].Title)
	assert.Equal(suite.T(), user.Email, list.Items[0].AuthorEmail)

	// members are not reviewers
	suite.expectError(suite.doRequest(http.MethodGet, "/admin/posts/pending", user.Token, nil), http.StatusForbidden, 5)
}

func (suite *MemberPostTestSuite) TestExpirePosts() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Hết hạn"))
	suite.approve(draft.ID, false)
	_, err := suite.service.DB.NewUpdate().Model((*models.MemberPost)(nil)).
		Set("expires_at = ?", time.Now().Add(-time.Minute)).
		Where("id = ?", draft.ID).
		Exec(context.Background())
	assert.NoError(suite.T(), err)

	expired, err := suite.service.ExpirePosts(context.Background())
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), expired, 1)
	assert.Equal(suite.T(), common.PostStatusExpired, expired[0].Status)

	// the public listing stays
	suite.expect(suite.doRequest(http.MethodGet, "/properties/"+draft.ID, "", nil), http.StatusOK, nil)
}

func (suite *MemberPostTestSuite) TestRejectThroughApproveEndpoint() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Nhà phố Gò Vấp"))
	path := fmt.Sprintf("/admin/posts/%s/approve", draft.ID)

	// a rejection needs a reason on this endpoint too
	rec := suite.doRequest(http.MethodPut, path, suite.admin.Token,
		&controllers.ApproveRequestBody{Status: common.PostStatusRejected})
	errResp := suite.expectError(rec, http.StatusUnprocessableEntity, 9)
	assert.Contains(suite.T(), errResp.Fields, "rejection_reason")

	rec = suite.doRequest(http.MethodPut, path, suite.admin.Token, &controllers.ApproveRequestBody{Status: "maybe"})
	suite.expectError(rec, http.StatusUnprocessableEntity, 9)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).IsZero())

	rejected := &models.MemberPost{}
	rec = suite.doRequest(http.MethodPut, path, suite.admin.Token,
		&controllers.ApproveRequestBody{Status: common.PostStatusRejected, RejectionReason: "incomplete info"})
	suite.expect(rec, http.StatusOK, rejected)
	assert.Equal(suite.T(), common.PostStatusRejected, rejected.Status)
	assert.Equal(suite.T(), "incomplete info", rejected.RejectionReason)

	assert.True(suite.T(), suite.balance(suite.service, user.ID).Equal(postFee))
	assert.Equal(suite.T(), 1, suite.countEntries(suite.service, user.ID, common.TransactionTypeRefund))
	suite.assertLedgerMatchesWallet(suite.service, user.ID)

	exists, err := suite.service.DB.NewSelect().Model((*models.Property)(nil)).Where("id = ?", draft.ID).Exists(context.Background())
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *MemberPostTestSuite) TestConcurrentSubmissions() {
	const attempts, affordable = 5, 2
	user := suite.member(affordable * 50000)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		refused  int
		other    []string
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := suite.doRequest(http.MethodPost, "/member/posts", user.Token, propertyDraft(fmt.Sprintf("Căn hộ %d", i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case rec.Code == http.StatusCreated:
				accepted++
			case rec.Code == http.StatusBadRequest && strings.Contains(rec.Body.String(), "Insufficient balance"):
				refused++
			default:
				other = append(other, rec.Body.String())
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(suite.T(), other)
	assert.Equal(suite.T(), affordable, accepted)
	assert.Equal(suite.T(), attempts-affordable, refused)
	assert.True(suite.T(), suite.balance(suite.service, user.ID).IsZero())
	assert.Equal(suite.T(), affordable, suite.countEntries(suite.service, user.ID, common.TransactionTypePostFee))
	_, total, err := suite.service.ListPosts(context.Background(), user.ID, service.PostFilter{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), affordable, total)
	suite.assertLedgerMatchesWallet(suite.service, user.ID)
}

func (suite *MemberPostTestSuite) TestApproveLandPost() {
	user := suite.member(50000)
	area, width, length := 120.0, 6.0, 20.0
	draft := suite.submit(user, &service.PostPayload{
		Title:        "Đất nền Thủ Đức",
		Description:  "Lô góc hai mặt tiền",
		PostType:     common.PostTypeLand,
		Price:        decimal.NewFromInt(4800000000),
		ContactPhone: "0901234567",
		LandType:     "residential",
		Area:         &area,
		Width:        &width,
		Length:       &length,
		Address:      "Đường số 9",
		District:     "Thủ Đức",
		City:         "Hồ Chí Minh",
	})
	approved := suite.approve(draft.ID, false)
	assert.Equal(suite.T(), common.PostStatusApproved, approved.Status)

	land := &models.Land{}
	err := suite.service.DB.NewSelect().Model(land).Where("id = ?", draft.ID).Scan(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Đất nền Thủ Đức", land.Title)
	assert.Equal(suite.T(), common.PropertyStatusForSale, land.Status)
	assert.Equal(suite.T(), common.DefaultLegalStatus, land.LegalStatus)
	assert.Equal(suite.T(), "Sổ đỏ", land.LegalStatus)
	assert.Equal(suite.T(), int64(0), land.Views)
	assert.True(suite.T(), land.Price.Equal(decimal.NewFromInt(4800000000)))

	exists, err := suite.service.DB.NewSelect().Model((*models.Property)(nil)).Where("id = ?", draft.ID).Exists(context.Background())
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

func (suite *MemberPostTestSuite) TestApproveSimPost() {
	user := suite.member(50000)
	draft := suite.submit(user, &service.PostPayload{
		Title:        "Sim tứ quý 8888",
		Description:  "Sim đẹp chính chủ",
		PostType:     common.PostTypeSim,
		Price:        decimal.NewFromInt(25000000),
		ContactPhone: "0901234567",
		PhoneNumber:  "0988888888",
		Network:      "viettel",
		SimType:      "prepaid",
		IsVip:        true,
		Features:     []string{"tứ quý"},
	})
	approved := suite.approve(draft.ID, false)
	assert.Equal(suite.T(), common.PostStatusApproved, approved.Status)

	sim := &models.Sim{}
	err := suite.service.DB.NewSelect().Model(sim).Where("id = ?", draft.ID).Scan(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), draft.ID, sim.ID)
	assert.Equal(suite.T(), common.SimStatusAvailable, sim.Status)
	assert.Equal(suite.T(), "0988888888", sim.PhoneNumber)
	assert.True(suite.T(), sim.IsVip)
	assert.Equal(suite.T(), int64(0), sim.Views)
}

func (suite *MemberPostTestSuite) TestApproveNewsPost() {
	user := suite.member(50000)
	draft := suite.submit(user, &service.PostPayload{
		Title:        "Thị trường căn hộ quý 3",
		Description:  "Giá căn hộ tăng nhẹ",
		PostType:     common.PostTypeNews,
		ContactPhone: "0901234567",
	})
	approved := suite.approve(draft.ID, false)
	assert.Equal(suite.T(), common.PostStatusApproved, approved.Status)
	assert.False(suite.T(), approved.ApprovedAt.IsZero())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Property)(nil),
		(*models.Land)(nil),
		(*models.Sim)(nil),
		(*models.NewsArticle)(nil),
	} {
		count, err := suite.service.DB.NewSelect().Model(model).Where("id = ?", draft.ID).Count(ctx)
		assert.NoError(suite.T(), err)
		assert.Equal(suite.T(), 0, count)
	}
	assert.True(suite.T(), suite.balance(suite.service, user.ID).IsZero())
}

func (suite *MemberPostTestSuite) TestPricesCannotGoNegative() {
	user := suite.member(50000)
	draft := suite.submit(user, propertyDraft("Giá âm"))
	suite.approve(draft.ID, false)

	ctx := context.Background()
	_, err := suite.service.DB.NewUpdate().Model((*models.MemberPost)(nil)).
		Set("price = ?", -1).
		Where("id = ?", draft.ID).
		Exec(ctx)
	assert.Error(suite.T(), err)
	_, err = suite.service.DB.NewUpdate().Model((*models.Property)(nil)).
		Set("price = ?", -1).
		Where("id = ?", draft.ID).
		Exec(ctx)
	assert.Error(suite.T(), err)

	prop := &models.Property{}
	assert.NoError(suite.T(), suite.service.DB.NewSelect().Model(prop).Where("id = ?", draft.ID).Scan(ctx))
	assert.True(suite.T(), prop.Price.Equal(decimal.NewFromInt(2500000000)))
}

func TestMemberPostTestSuite(t *testing.T) {
	suite.Run(t, new(MemberPostTestSuite))
}
