// Package seed loads the category reference data and optional demo accounts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"constructhub/internal/domain"
	"constructhub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

// Categories is the fixed construction taxonomy.
func Categories() []domain.Category {
	return []domain.Category{
		{
			ID:            1,
			NameEn:        "Building Construction",
			NameAm:        "የህንፃ ግንባታ",
			DescriptionEn: "Residential, commercial, and industrial building projects",
			DescriptionAm: "የመኖሪያ፣ የንግድ እና የኢንዱስትሪ ህንፃ ፕሮጀክቶች",
		},
		{
			ID:            2,
			NameEn:        "Road Construction",
			NameAm:        "የመንገድ ግንባታ",
			DescriptionEn: "Highways, bridges, and infrastructure development",
			DescriptionAm: "አውራ ጎዳናዎች፣ ድልድዮች እና የመሰረተ ልማት ግንባታ",
		},
		{
			ID:            3,
			NameEn:        "Water Construction",
			NameAm:        "የውሃ ግንባታ",
			DescriptionEn: "Dams, irrigation systems, and water supply networks",
			DescriptionAm: "ግድቦች፣ የመስኖ ስርዓቶች እና የውሃ አቅርቦት አውታረ መረቦች",
		},
	}
}

// Subcategories with a nil CategoryID are offered under every category.
func Subcategories() []domain.Subcategory {
	return []domain.Subcategory{
		{ID: 1, CategoryID: ptr(int64(1)), NameEn: "Residential", NameAm: "የመኖሪያ"},
		{ID: 2, CategoryID: ptr(int64(1)), NameEn: "Commercial", NameAm: "የንግድ"},
		{ID: 3, CategoryID: ptr(int64(1)), NameEn: "Industrial", NameAm: "የኢንዱስትሪ"},
		{ID: 4, CategoryID: ptr(int64(2)), NameEn: "Highways", NameAm: "አውራ ጎዳናዎች"},
		{ID: 5, CategoryID: ptr(int64(2)), NameEn: "Bridges", NameAm: "ድልድዮች"},
		{ID: 6, CategoryID: ptr(int64(3)), NameEn: "Dams", NameAm: "ግድቦች"},
		{ID: 7, CategoryID: ptr(int64(3)), NameEn: "Irrigation", NameAm: "መስኖ"},
		{ID: 8, CategoryID: ptr(int64(3)), NameEn: "Water Supply", NameAm: "የውሃ አቅርቦት"},
		{ID: 9, NameEn: "Renovation", NameAm: "እድሳት"},
	}
}

// Reference upserts categories and subcategories. Safe to run repeatedly.
func Reference(ctx context.Context, db *gorm.DB) error {
	return repository.NewCategoryRepository(db).Upsert(ctx, Categories(), Subcategories())
}

const demoPassword = "demo1234"

// Demo creates one company, two clients and a couple of projects with bids.
// Accounts that already exist are left alone and no projects are added.
func Demo(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) error {
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	bids := repository.NewBidRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	company := &domain.User{
		Email:        "company@constructhub.et",
		PasswordHash: string(hash),
		FullName:     "Abay Builders",
		Phone:        "+251911000001",
		Role:         domain.RoleCompany,
		CompanyProfile: &domain.CompanyProfile{
			CompanyName:     "Abay Builders PLC",
			BusinessLicense: "AA/1234/2015",
			Address:         "Bole, Addis Ababa",
			Description:     "General contractor for roads and bridges",
			Website:         "https://abay.example",
		},
	}
	clients := []*domain.User{
		{
			Email: "tigist@constructhub.et", PasswordHash: string(hash), FullName: "Tigist Alemu",
			Phone: "+251911000002", Role: domain.RoleClient,
			ClientProfile: &domain.ClientProfile{Address: "Adama", Bio: "Civil engineer, 10 years on road works"},
		},
		{
			Email: "dawit@constructhub.et", PasswordHash: string(hash), FullName: "Dawit Bekele",
			Phone: "+251911000003", Role: domain.RoleClient,
			ClientProfile: &domain.ClientProfile{Address: "Bahir Dar", Bio: "Mason and site supervisor"},
		},
	}

	if err := users.CreateWithProfile(ctx, company); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Info("demo accounts already present, skipping")
			return nil
		}
		return fmt.Errorf("create demo company: %w", err)
	}
	for _, c := range clients {
		if err := users.CreateWithProfile(ctx, c); err != nil {
			return fmt.Errorf("create demo client %s: %w", c.Email, err)
		}
	}

	budget := decimal.NewFromInt(200000)
	bridge := &domain.Project{
		CompanyID:     company.ID,
		Title:         "Bridge Repair",
		Description:   "Repair the north bridge support beams",
		CategoryID:    2,
		SubcategoryID: ptr(int64(5)),
		Location:      "Addis Ababa",
		Budget:        &budget,
	}
	canal := &domain.Project{
		CompanyID:   company.ID,
		Title:       "Irrigation Canal Lining",
		Description: "Concrete lining for a 4 km irrigation canal near Lake Tana",
		CategoryID:  3,
		Location:    "Bahir Dar",
	}
	for _, p := range []*domain.Project{bridge, canal} {
		if err := projects.Create(ctx, p); err != nil {
			return fmt.Errorf("create demo project %q: %w", p.Title, err)
		}
	}

	if err := bids.Create(ctx, &domain.Bid{
		ProjectID:  bridge.ID,
		ClientID:   clients[0].ID,
		BidAmount:  decimal.NewFromInt(150000),
		Proposal:   "20+ years bridge repair experience with a full crew",
		Experience: "Awash river bridge rehabilitation",
	}); err != nil {
		return fmt.Errorf("create demo bid: %w", err)
	}

	log.WithFields(logrus.Fields{"company": company.Email, "password": demoPassword}).Info("demo data created")
	return nil
}
