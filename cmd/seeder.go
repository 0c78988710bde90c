package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/finance-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/finance-tracker/internal/core/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// seedTables lists tables cleared by --clear, children first.
var seedTables = []string{
	"access_logs", "password_resets", "budgets", "expenses", "credit_cards", "categories", "users",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with roles, a demo administrator and user, and default categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		dbs, err := initDB(cfg.Database, false)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer dbs.Close()
		db := dbs.Gorm

		if clearData {
			for _, table := range seedTables {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		roles := []userDatamodel.Role{
			{ID: internal.RoleAdmin, Name: "admin"},
			{ID: internal.RoleRegular, Name: "regular"},
		}
		for _, r := range roles {
			if err := db.Where(userDatamodel.Role{ID: r.ID}).FirstOrCreate(&r).Error; err != nil {
				log.Fatalf("failed to seed role %s: %v", r.Name, err)
			}
		}

		hasher := coreUser.NewHasher(cfg.Security.BCryptCost)
		hash, err := hasher.Hash("password")
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		users := []userDatamodel.User{
			{Name: "Admin", Email: "admin@mail.com", PasswordHash: hash, RoleID: internal.RoleAdmin},
			{Name: "Demo User", Email: "demo@mail.com", PasswordHash: hash, RoleID: internal.RoleRegular},
		}
		for _, u := range users {
			if seeded, err := seedUser(db, &u); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			} else if seeded {
				fmt.Println("Seeded user:", u.Email)
			} else {
				fmt.Printf("%s already exists\n", u.Email)
			}
		}

		categories := []string{"Food", "Transport", "Housing", "Utilities", "Health", "Entertainment", "Shopping", "Other"}
		for _, name := range categories {
			var count int64
			if err := db.Model(&categoryDatamodel.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
				log.Fatalf("failed to look up category %s: %v", name, err)
			}
			if count > 0 {
				continue
			}
			if err := db.Create(&categoryDatamodel.Category{Name: name}).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", name, err)
			}
			fmt.Printf("Seeded category: %s\n", name)
		}

		fmt.Println("Seed complete")
	},
}

// seedUser inserts u unless its email is taken.
func seedUser(db *gorm.DB, u *userDatamodel.User) (bool, error) {
	var count int64
	if err := db.Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, db.Create(u).Error
}
