package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/valvedesk/quoting-backoffice/models"
	"github.com/valvedesk/quoting-backoffice/utils"
)

// TestPassword is the plain password of every fixture operator
const TestPassword = "TestPass123!"

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestRole creates a role with the given code
func (tf *TestFixtures) CreateTestRole(code string) (*models.Role, error) {
	role := &models.Role{Code: code, Name: code}
	if err := tf.DB.DB.Create(role).Error; err != nil {
		return nil, fmt.Errorf("failed to create test role: %w", err)
	}
	return role, nil
}

// CreateTestOperator creates an active operator bound to role
func (tf *TestFixtures) CreateTestOperator(roleID uint) (*models.Operator, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	operator := &models.Operator{
		UUID:         uuid.New(),
		Username:     fmt.Sprintf("operator_%d", rand.Intn(1_000_000)),
		PasswordHash: string(hashedPassword),
		DisplayName:  "Test Operator",
		RoleID:       roleID,
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(operator).Error; err != nil {
		return nil, fmt.Errorf("failed to create test operator: %w", err)
	}
	return operator, nil
}

// CreateTestSupplier creates an active supplier with a unique code
func (tf *TestFixtures) CreateTestSupplier() (*models.Supplier, error) {
	supplier := &models.Supplier{
		Code:     fmt.Sprintf("SUP%06d", rand.Intn(1_000_000)),
		Name:     "Test Valve Works",
		Contact:  utils.ToPtr("Jane Roe"),
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create test supplier: %w", err)
	}
	return supplier, nil
}

// CreateTestBill creates a bill with one valve body line and one attachment line
func (tf *TestFixtures) CreateTestBill() (*models.Bill, error) {
	bill := &models.Bill{
		BillNo:    fmt.Sprintf("QR%s%04d", time.Now().UTC().Format("20060102"), rand.Intn(10000)),
		Title:     "Test quote request",
		Requester: utils.ToPtr("engineering"),
		Details: []models.BillDetail{
			{
				Category: models.PartCategoryValveBody,
				ItemType: "Gate",
				DN:       "DN50",
				PN:       "PN16",
				Material: "WCB",
				Quantity: 4,
			},
			{
				Category: models.PartCategoryAttachment,
				ItemType: "Actuator",
				Model:    "IQ10",
				Brand:    "Rotork",
				Quantity: 4,
			},
		},
	}
	if err := tf.DB.DB.Create(bill).Error; err != nil {
		return nil, fmt.Errorf("failed to create test bill: %w", err)
	}
	return bill, nil
}

// NewValveBodyPart builds an unsaved valve body price record with the given timeout
func NewValveBodyPart(supplierID *uint, timeout int, price float64) models.PricedPart {
	askDate := utils.StartOfDayUTC(time.Now())
	return models.PricedPart{
		Category:   models.PartCategoryValveBody,
		SupplierID: supplierID,
		AskDate:    &askDate,
		Price:      &price,
		Timeout:    timeout,
		ValveBody: &models.ValveBodySpec{
			ValveType:    "Gate",
			DN:           "DN50",
			PN:           "PN16",
			BodyMaterial: "WCB",
			Quantity:     1,
		},
	}
}

// NewAttachmentPart builds an unsaved attachment price record with the given timeout
func NewAttachmentPart(supplierID *uint, timeout int, price float64) models.PricedPart {
	askDate := utils.StartOfDayUTC(time.Now())
	return models.PricedPart{
		Category:   models.PartCategoryAttachment,
		SupplierID: supplierID,
		AskDate:    &askDate,
		Price:      &price,
		Timeout:    timeout,
		Attachment: &models.AttachmentSpec{
			AttachmentType: "Actuator",
			Model:          "IQ10",
			Brand:          "Rotork",
			Quantity:       1,
		},
	}
}
