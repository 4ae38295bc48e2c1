// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/food-delivery-backend/internal/domain/cart"
	"github.com/your-org/food-delivery-backend/internal/domain/catalog"
	"github.com/your-org/food-delivery-backend/internal/domain/delivery"
	"github.com/your-org/food-delivery-backend/internal/domain/order"
	"github.com/your-org/food-delivery-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},

		// Catalog domain
		&catalog.Category{},
		&catalog.Food{},

		// Cart domain
		&cart.Cart{},
		&cart.LineItem{},

		// Delivery domain
		&delivery.Partner{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.Item{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_foods_category_available ON foods(category_id, available)",
		"CREATE INDEX IF NOT EXISTS idx_foods_popular ON foods(popular, available)",
		"CREATE INDEX IF NOT EXISTS idx_foods_name_lower ON foods(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_line_items_cart_line ON cart_line_items(cart_id, line_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_line_items_food ON cart_line_items(food_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_delivery_partner ON orders(delivery_partner_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Delivery partner indexes
		"CREATE INDEX IF NOT EXISTS idx_delivery_partners_available ON delivery_partners(available)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedMenu(); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	if err := m.seedDeliveryPartners(); err != nil {
		return fmt.Errorf("failed to seed delivery partners: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default menu categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []catalog.Category{
		{
			Name:        "Starters",
			Description: "Small plates and appetizers",
			SortOrder:   1,
		},
		{
			Name:        "Main Course",
			Description: "Curries, biryanis, and full meals",
			SortOrder:   2,
		},
		{
			Name:        "Pizza",
			Description: "Wood-fired pizzas",
			SortOrder:   3,
		},
		{
			Name:        "Desserts",
			Description: "Sweets and frozen treats",
			SortOrder:   4,
		},
		{
			Name:        "Beverages",
			Description: "Hot and cold drinks",
			SortOrder:   5,
		},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Name:     "Admin",
			Email:    "admin@example.com",
			Password: string(hashedPassword),
			IsActive: true,
			IsAdmin:  true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "test1@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("test123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Name:     "Test User",
			Email:    "test1@example.com",
			Password: string(hashedPassword),
			Phone:    "+919876543210",
			IsActive: true,
			IsAdmin:  false,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: test1@example.com (password: test123)")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedMenu creates starter menu items for development
func (m *Migration) seedMenu() error {
	log.Println("🍽️ Seeding menu items...")

	var foodCount int64
	m.db.Model(&catalog.Food{}).Count(&foodCount)
	if foodCount > 0 {
		log.Println("⏭️ Menu items already exist")
		return nil
	}

	categoryIDs := map[string]uint{}
	var categories []catalog.Category
	if err := m.db.Find(&categories).Error; err != nil {
		return err
	}
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	// Prices are in paise
	foods := []catalog.Food{
		{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese with mint chutney", Price: 22000, CategoryName: "Starters", Available: true, Popular: true},
		{Name: "Chicken 65", Description: "Spicy deep-fried chicken bites", Price: 24000, CategoryName: "Starters", Available: true},
		{Name: "Butter Chicken", Description: "Tandoori chicken in a rich tomato gravy", Price: 32000, CategoryName: "Main Course", Available: true, Popular: true},
		{Name: "Veg Biryani", Description: "Fragrant basmati rice with seasonal vegetables", Price: 25000, CategoryName: "Main Course", Available: true},
		{Name: "Dal Makhani", Description: "Slow-cooked black lentils", Price: 21000, CategoryName: "Main Course", Available: true},
		{Name: "Margherita Pizza", Description: "Tomato, mozzarella, and basil", Price: 29000, CategoryName: "Pizza", Available: true, Popular: true},
		{Name: "Farmhouse Pizza", Description: "Onion, capsicum, mushroom, and tomato", Price: 34000, CategoryName: "Pizza", Available: true},
		{Name: "Gulab Jamun", Description: "Warm milk dumplings in saffron syrup", Price: 12000, CategoryName: "Desserts", Available: true},
		{Name: "Mango Lassi", Description: "Thick yogurt shake with alphonso mango", Price: 9000, CategoryName: "Beverages", Available: true},
		{Name: "Masala Chai", Description: "Spiced tea brewed with milk", Price: 5000, CategoryName: "Beverages", Available: true},
	}

	created := 0
	for _, food := range foods {
		categoryID, ok := categoryIDs[food.CategoryName]
		if !ok {
			log.Printf("⚠️ Skipping %s: category %s not found", food.Name, food.CategoryName)
			continue
		}
		food.CategoryID = categoryID

		if err := m.db.Create(&food).Error; err != nil {
			log.Printf("⚠️ Failed to create menu item %s: %v", food.Name, err)
			continue
		}
		created++
	}

	log.Printf("✅ Created %d menu items", created)
	return nil
}

// seedDeliveryPartners creates sample delivery partners for development
func (m *Migration) seedDeliveryPartners() error {
	log.Println("🛵 Seeding delivery partners...")

	var partnerCount int64
	m.db.Model(&delivery.Partner{}).Count(&partnerCount)
	if partnerCount > 0 {
		log.Println("⏭️ Delivery partners already exist")
		return nil
	}

	partners := []delivery.Partner{
		{Name: "Ravi Kumar", Phone: "+919812345001", VehicleNumber: "KA01AB1234", Available: true},
		{Name: "Sunil Sharma", Phone: "+919812345002", VehicleNumber: "KA02CD5678", Available: true},
	}

	for _, partner := range partners {
		if err := m.db.Create(&partner).Error; err != nil {
			log.Printf("⚠️ Failed to create delivery partner %s: %v", partner.Name, err)
		}
	}

	log.Printf("✅ Created %d delivery partners", len(partners))
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_items",
		"orders",
		"cart_line_items",
		"carts",
		"delivery_partners",
		"foods",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// CleanupTestData removes test data (useful for production setup)
func (m *Migration) CleanupTestData() error {
	log.Println("🧹 Cleaning up test data...")

	result := m.db.Where("email = ? AND is_admin = ?", "test1@example.com", false).Delete(&user.User{})
	log.Printf("🗑️ Removed %d test users", result.RowsAffected)

	log.Println("✅ Test data cleanup completed")
	return nil
}
