package actions

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/apperrors"
	"github.com/carson-networks/finance-server/internal/balance"
	"github.com/carson-networks/finance-server/internal/storage/account"
	"github.com/carson-networks/finance-server/internal/storage/category"
	"github.com/carson-networks/finance-server/internal/storage/checklist"
	"github.com/carson-networks/finance-server/internal/storage/transaction"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

func validateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validation(field, "required")
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return apperrors.Validation(field, "too long")
	}
	return nil
}

// validateMoney checks that value fits NUMERIC(19,4).
func validateMoney(field string, value decimal.Decimal, allowNegative bool) error {
	if !allowNegative && value.IsNegative() {
		return apperrors.Validation(field, "must not be negative")
	}
	if !value.Equal(value.Truncate(balance.MaxScale)) {
		return apperrors.Validation(field, "at most 4 decimal places")
	}
	if value.Abs().GreaterThanOrEqual(decimal.New(1, 15)) {
		return apperrors.Validation(field, "out of range")
	}
	return nil
}

// ValidateTransaction checks a full transaction state before it is written.
func ValidateTransaction(tx *transaction.Transaction) error {
	if tx.AccountID.IsNil() {
		return apperrors.Validation("account_id", "required")
	}
	if tx.CategoryID.IsNil() {
		return apperrors.Validation("category_id", "required")
	}
	if tx.Date.IsZero() {
		return apperrors.Validation("date", "required")
	}
	if tx.Description != nil && utf8.RuneCountInString(*tx.Description) > maxDescriptionLength {
		return apperrors.Validation("description", "too long")
	}
	if err := balance.Validate(tx.Type, tx.Amount); err != nil {
		return err
	}
	return validateMoney("amount", tx.Amount, false)
}

func ValidateAccountCreate(create *account.AccountCreate) error {
	if err := validateName("name", create.Name); err != nil {
		return err
	}
	if !create.Type.Valid() {
		return apperrors.Validation("type", "must be one of cash, bank, credit, savings, investment")
	}
	return validateMoney("opening_balance", create.OpeningBalance, true)
}

func ValidateAccountPatch(patch *account.AccountPatch) error {
	if patch == nil {
		return nil
	}
	if patch.Name != nil {
		if err := validateName("name", *patch.Name); err != nil {
			return err
		}
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return apperrors.Validation("type", "must be one of cash, bank, credit, savings, investment")
	}
	return nil
}

func ValidateCategoryCreate(create *category.CategoryCreate) error {
	if err := validateName("name", create.Name); err != nil {
		return err
	}
	if !create.Type.Valid() {
		return apperrors.Validation("type", "must be income or expense")
	}
	return nil
}

func ValidateChecklistItem(title string, target, saved decimal.Decimal, priority checklist.Priority) error {
	if err := validateName("title", title); err != nil {
		return err
	}
	if !target.IsPositive() {
		return apperrors.Validation("target_amount", "must be greater than zero")
	}
	if err := validateMoney("target_amount", target, false); err != nil {
		return err
	}
	if err := validateMoney("saved_amount", saved, false); err != nil {
		return err
	}
	if !priority.Valid() {
		return apperrors.Validation("priority", "must be low, medium or high")
	}
	return nil
}

// checkCategory rejects a category whose type differs from the transaction's.
func checkCategory(cat *category.Category, txType transaction.Type) error {
	if cat.Type != txType {
		return apperrors.Validation("category_id", "category type does not match transaction type")
	}
	return nil
}
