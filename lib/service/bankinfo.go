package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

type BankInfo struct {
	BankName       string          `json:"bank_name"`
	AccountNumber  string          `json:"account_number"`
	AccountHolder  string          `json:"account_holder"`
	BankBranch     string          `json:"bank_branch,omitempty"`
	TransferNote   string          `json:"transfer_note"`
	MinDeposit     decimal.Decimal `json:"min_deposit"`
	MaxDeposit     decimal.Decimal `json:"max_deposit"`
	ProcessingTime string          `json:"processing_time"`
	QRCode         string          `json:"qr_code"`
}

func TransferNote(username string) string {
	return fmt.Sprintf("%s %s", common.TransferNotePrefix, username)
}

// BankInfo returns the transfer instructions for username. When no QR image
// is configured one is generated from the account number and transfer note.
func (svc *BdshubService) BankInfo(ctx context.Context, username string) (*BankInfo, error) {
	settings, err := svc.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	info := &BankInfo{
		BankName:       settings.BankName,
		AccountNumber:  settings.BankAccountNumber,
		AccountHolder:  settings.BankAccountHolder,
		BankBranch:     settings.BankBranch,
		TransferNote:   TransferNote(username),
		MinDeposit:     decimal.NewFromInt(svc.Config.MinDepositAmount),
		MaxDeposit:     decimal.NewFromInt(svc.Config.MaxDepositAmount),
		ProcessingTime: svc.Config.DepositProcessingTime,
		QRCode:         settings.BankQRCode,
	}
	if info.QRCode == "" {
		png, err := TransferQRCode(info.AccountNumber, info.BankName, info.TransferNote)
		if err != nil {
			return nil, err
		}
		info.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}
	return info, nil
}

// TransferQRCode renders the transfer details as a 256px PNG.
func TransferQRCode(accountNumber, bankName, note string) ([]byte, error) {
	return qrcode.Encode(fmt.Sprintf("%s|%s|%s", bankName, accountNumber, note), qrcode.Medium, 256)
}
