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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type DepositTestSuite struct {
	TestSuite
	service *service.BdshubService
	admin   *testUser
	member  *testUser
}

func (suite *DepositTestSuite) SetupSuite() {
	svc, err := BdshubTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *DepositTestSuite) SetupTest() {
	assert.NoError(suite.T(), clearTables(suite.service))
	var err error
	if suite.admin, err = createUser(suite.service, common.RoleAdmin, 0); err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}
	if suite.member, err = createUser(suite.service, common.RoleMember, 0); err != nil {
		log.Fatalf("Error creating member: %v", err)
	}
}

func (suite *DepositTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTables(suite.service))
}

func (suite *DepositTestSuite) requestDeposit(amount int64) *models.Transaction {
	entry := &models.Transaction{}
	rec := suite.doRequest(http.MethodPost, "/wallet/deposit", suite.member.Token, &service.DepositRequest{
		Amount: decimal.NewFromInt(amount),
	})
	suite.expect(rec, http.StatusCreated, entry)
	return entry
}

func (suite *DepositTestSuite) TestApproveDeposit() {
	entry := suite.requestDeposit(500000)
	assert.Equal(suite.T(), common.TransactionStatusPending, entry.Status)
	assert.Equal(suite.T(), common.TransactionTypeDeposit, entry.TransactionType)
	assert.Equal(suite.T(), common.DepositMethodBank, entry.Method)
	// requesting does not touch the wallet
	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).IsZero())

	approved := &models.Transaction{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/transactions/%s/approve", entry.ID), suite.admin.Token, &controllers.DepositReviewBody{})
	suite.expect(rec, http.StatusOK, approved)
	assert.Equal(suite.T(), entry.ID, approved.ID)
	assert.Equal(suite.T(), common.TransactionStatusCompleted, approved.Status)
	assert.False(suite.T(), approved.CompletedAt.IsZero())
	assert.Contains(suite.T(), approved.AdminNotes, suite.admin.Username)

	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).Equal(decimal.NewFromInt(500000)))
	// the request itself became the ledger line
	assert.Equal(suite.T(), 1, suite.countEntries(suite.service, suite.member.ID, common.TransactionTypeDeposit))
	suite.assertLedgerMatchesWallet(suite.service, suite.member.ID)

	// a second approval changes nothing
	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/transactions/%s/approve", entry.ID), suite.admin.Token, &controllers.DepositReviewBody{})
	suite.expectError(rec, http.StatusBadRequest, 3)
	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).Equal(decimal.NewFromInt(500000)))

	balance := &controllers.BalanceResponse{}
	suite.expect(suite.doRequest(http.MethodGet, "/wallet/balance", suite.member.Token, nil), http.StatusOK, balance)
	assert.True(suite.T(), balance.Balance.Equal(decimal.NewFromInt(500000)))
}

func (suite *DepositTestSuite) TestRejectDeposit() {
	entry := suite.requestDeposit(100000)
	rejected := &models.Transaction{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/transactions/%s/reject", entry.ID), suite.admin.Token,
		&controllers.DepositRejectBody{Reason: "transfer not found"})
	suite.expect(rec, http.StatusOK, rejected)
	assert.Equal(suite.T(), common.TransactionStatusFailed, rejected.Status)
	assert.Contains(suite.T(), rejected.AdminNotes, "transfer not found")
	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).IsZero())

	// failed deposits can no longer be approved
	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/transactions/%s/approve", entry.ID), suite.admin.Token, nil)
	suite.expectError(rec, http.StatusBadRequest, 3)
	suite.assertLedgerMatchesWallet(suite.service, suite.member.ID)
}

func (suite *DepositTestSuite) TestDepositLimits() {
	rec := suite.doRequest(http.MethodPost, "/wallet/deposit", suite.member.Token, &service.DepositRequest{Amount: decimal.NewFromInt(49999)})
	suite.expectError(rec, http.StatusBadRequest, 7)
	rec = suite.doRequest(http.MethodPost, "/wallet/deposit", suite.member.Token, &service.DepositRequest{Amount: decimal.NewFromInt(-50000)})
	suite.expectError(rec, http.StatusBadRequest, 7)
	rec = suite.doRequest(http.MethodPost, "/wallet/deposit", suite.member.Token, &service.DepositRequest{Amount: decimal.NewFromInt(50000001)})
	suite.expectError(rec, http.StatusBadRequest, 7)
	assert.Equal(suite.T(), 0, suite.countEntries(suite.service, suite.member.ID, common.TransactionTypeDeposit))
}

func (suite *DepositTestSuite) TestUnknownDeposit() {
	rec := suite.doRequest(http.MethodPut, "/admin/transactions/does-not-exist/approve", suite.admin.Token, nil)
	suite.expectError(rec, http.StatusNotFound, 4)
	rec = suite.doRequest(http.MethodPut, "/admin/transactions/does-not-exist/reject", suite.admin.Token,
		&controllers.DepositRejectBody{Reason: "x"})
	suite.expectError(rec, http.StatusNotFound, 4)
}

func (suite *DepositTestSuite) TestBankConfirmation() {
	entry := suite.requestDeposit(200000)
	ctx := context.Background()

	err := suite.service.ConfirmBankTransfer(ctx, entry.ID, "FT2403010001", decimal.NewFromInt(150000))
	assert.ErrorIs(suite.T(), err, service.ErrInvalidAmount)
	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).IsZero())

	assert.NoError(suite.T(), suite.service.ConfirmBankTransfer(ctx, entry.ID, "FT2403010001", decimal.NewFromInt(200000)))
	confirmed, err := suite.service.FindTransaction(ctx, entry.ID, suite.member.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), common.TransactionStatusCompleted, confirmed.Status)
	assert.Equal(suite.T(), "FT2403010001", confirmed.BankTransactionID)
	assert.True(suite.T(), suite.balance(suite.service, suite.member.ID).Equal(decimal.NewFromInt(200000)))

	err = suite.service.ConfirmBankTransfer(ctx, entry.ID, "FT2403010001", decimal.NewFromInt(200000))
	assert.ErrorIs(suite.T(), err, service.ErrInvalidStateTransition)
}

func (suite *DepositTestSuite) TestAdminAdjustment() {
	resp := &controllers.BalanceAdjustmentResponse{}
	rec := suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/balance", suite.member.ID), suite.admin.Token,
		&controllers.BalanceAdjustmentBody{Amount: decimal.NewFromInt(80000), Description: "khuyến mãi"})
	suite.expect(rec, http.StatusOK, resp)
	assert.True(suite.T(), resp.NewBalance.Equal(decimal.NewFromInt(80000)))

	// debits can not take the wallet below zero
	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/balance", suite.member.ID), suite.admin.Token,
		&controllers.BalanceAdjustmentBody{Amount: decimal.NewFromInt(-100000), Description: "sửa sai"})
	suite.expectError(rec, http.StatusBadRequest, 2)

	rec = suite.doRequest(http.MethodPut, fmt.Sprintf("/admin/users/%s/balance", suite.member.ID), suite.admin.Token,
		&controllers.BalanceAdjustmentBody{Amount: decimal.NewFromInt(-30000), Description: "sửa sai"})
	suite.expect(rec, http.StatusOK, resp)
	assert.True(suite.T(), resp.NewBalance.Equal(decimal.NewFromInt(50000)))
	assert.Equal(suite.T(), common.TransactionTypeWithdraw, resp.Transaction.TransactionType)
	suite.assertLedgerMatchesWallet(suite.service, suite.member.ID)
}

func (suite *DepositTestSuite) TestTransactionHistory() {
	suite.requestDeposit(60000)
	suite.requestDeposit(70000)
	list := &struct {
		Items []models.Transaction `json:"items"`
		Total int                  `json:"total"`
	}{}
	suite.expect(suite.doRequest(http.MethodGet, "/wallet/transactions?status=pending", suite.member.Token, nil), http.StatusOK, list)
	assert.Equal(suite.T(), 2, list.Total)
	// newest first
	assert.True(suite.T(), list.Items[0].Amount.Equal(decimal.NewFromInt(70000)))

	suite.expect(suite.doRequest(http.MethodGet, "/admin/transactions?user_id="+suite.member.ID, suite.admin.Token, nil), http.StatusOK, list)
	assert.Equal(suite.T(), 2, list.Total)
}

func TestDepositTestSuite(t *testing.T) {
	suite.Run(t, new(DepositTestSuite))
}
