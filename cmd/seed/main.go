// Package main provides a CLI tool that prepares the database: it applies
// the schema and seeds the initial admin user, plus demo data on request.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"tillbox/internal/domain/auth"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/numerator"
	"tillbox/internal/infrastructure/storage/postgres"
	"tillbox/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied")

	adminID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// schemaDDL creates every table the application reads or writes. Statements
// are idempotent so the seeder can run on every deploy.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS manufacturers (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id              BIGSERIAL PRIMARY KEY,
		name            TEXT NOT NULL,
		barcode         TEXT,
		category_id     BIGINT NOT NULL REFERENCES categories(id),
		manufacturer_id BIGINT NOT NULL REFERENCES manufacturers(id),
		purchase_price  NUMERIC(14,2) NOT NULL DEFAULT 0,
		selling_price   NUMERIC(14,2) NOT NULL DEFAULT 0,
		deletion_mark   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_manufacturer ON products (manufacturer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_barcode ON products (barcode) WHERE barcode IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id            BIGSERIAL PRIMARY KEY,
		number        TEXT NOT NULL UNIQUE,
		type          TEXT NOT NULL,
		note          TEXT NOT NULL DEFAULT '',
		user_id       BIGINT NOT NULL REFERENCES users(id),
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions (type)`,

	`CREATE TABLE IF NOT EXISTS transaction_items (
		id             BIGSERIAL PRIMARY KEY,
		transaction_id BIGINT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
		line_no        INT NOT NULL,
		product_id     BIGINT NOT NULL REFERENCES products(id),
		quantity       BIGINT NOT NULL,
		price          NUMERIC(14,2) NOT NULL,
		amount         NUMERIC(14,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_items_transaction ON transaction_items (transaction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_items_product ON transaction_items (product_id)`,

	`CREATE TABLE IF NOT EXISTS print_jobs (
		id             BIGSERIAL PRIMARY KEY,
		transaction_id BIGINT NOT NULL REFERENCES transactions(id),
		status         TEXT NOT NULL,
		document       BYTEA,
		retry_count    INT NOT NULL DEFAULT 0,
		last_error     TEXT,
		next_retry_at  TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		printed_at     TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_print_jobs_due ON print_jobs (status, next_retry_at, created_at)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		sequence_type TEXT NOT NULL,
		year          INT NOT NULL,
		current_val   BIGINT NOT NULL,
		PRIMARY KEY (sequence_type, year)
	)`,
}

func ensureSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (int64, error) {
	adminEmail := auth.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	if adminEmail == "" {
		adminEmail = "admin@tillbox.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID int64
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var adminID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ('Administrator', $1, $2, $3, TRUE)
		RETURNING id
	`, adminEmail, string(passwordHash), auth.RoleAdmin).Scan(&adminID)
	if err != nil {
		return 0, fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", adminID)
	return adminID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminID int64) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM manufacturers`).Scan(&count); err != nil {
		return fmt.Errorf("check demo data: %w", err)
	}
	if count > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	log.Info("seeding demo data...")

	// 1. Manufacturers
	manufacturers := []struct {
		name        string
		description string
	}{
		{"Acme Foods", "Packaged food and snacks"},
		{"Nordic Dairy", "Dairy products"},
		{"ClearSpring", "Bottled water and soft drinks"},
	}
	manufacturerIDs := make(map[string]int64, len(manufacturers))
	for _, m := range manufacturers {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO manufacturers (name, description)
			VALUES ($1, $2)
			RETURNING id
		`, m.name, m.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed manufacturer %s: %w", m.name, err)
		}
		manufacturerIDs[m.name] = id
	}

	// 2. Categories
	categories := []struct {
		name        string
		description string
	}{
		{"Beverages", "Drinks, juices and water"},
		{"Snacks", "Chips, crackers, candy"},
		{"Dairy", "Milk, cheese, yogurt"},
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			RETURNING id
		`, c.name, c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
		categoryIDs[c.name] = id
	}

	// 3. Products
	products := []struct {
		name          string
		barcode       string
		category      string
		manufacturer  string
		purchasePrice string
		sellingPrice  string
	}{
		{"Mineral Water 1.5L", "4800000000011", "Beverages", "ClearSpring", "8.50", "12.00"},
		{"Orange Juice 1L", "4800000000028", "Beverages", "ClearSpring", "22.00", "32.50"},
		{"Potato Chips 60g", "4800000000035", "Snacks", "Acme Foods", "11.25", "17.00"},
		{"Chocolate Bar 45g", "4800000000042", "Snacks", "Acme Foods", "14.00", "21.00"},
		{"Fresh Milk 1L", "4800000000059", "Dairy", "Nordic Dairy", "38.00", "52.00"},
		{"Plain Yogurt 500g", "4800000000066", "Dairy", "Nordic Dairy", "29.50", "44.00"},
	}
	productIDs := make([]int64, 0, len(products))
	prices := make([]string, 0, len(products))
	for _, p := range products {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO products (name, barcode, category_id, manufacturer_id, purchase_price, selling_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, p.name, p.barcode, categoryIDs[p.category], manufacturerIDs[p.manufacturer],
			p.purchasePrice, p.sellingPrice).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.name, err)
		}
		productIDs = append(productIDs, id)
		prices = append(prices, p.purchasePrice)
	}

	// 4. Opening stock: one purchase document so the stock view has numbers.
	if err := seedOpeningStock(ctx, pool, adminID, productIDs, prices); err != nil {
		return fmt.Errorf("seed opening stock: %w", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}

// seedOpeningStock records a purchase of 50 units of every demo product. The
// document number is reserved through sys_sequences like any other create.
func seedOpeningStock(ctx context.Context, pool *postgres.Pool, adminID int64, productIDs []int64, prices []string) error {
	year := time.Now().UTC().Year()

	var seq int64
	err := pool.QueryRow(ctx, `
		INSERT INTO sys_sequences (sequence_type, year, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (sequence_type, year) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, transaction.NumberPrefix, year).Scan(&seq)
	if err != nil {
		return fmt.Errorf("reserve document number: %w", err)
	}
	number := numerator.Format(transaction.NumberPrefix, year, seq)

	var transactionID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO transactions (number, type, note, user_id)
		VALUES ($1, $2, 'Opening stock', $3)
		RETURNING id
	`, number, transaction.TypePurchase, adminID).Scan(&transactionID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	const quantity = 50
	for i, productID := range productIDs {
		_, err := pool.Exec(ctx, `
			INSERT INTO transaction_items (transaction_id, line_no, product_id, quantity, price, amount)
			VALUES ($1, $2, $3, $4, $5, $5::numeric * $4)
		`, transactionID, i+1, productID, quantity, prices[i])
		if err != nil {
			return fmt.Errorf("insert transaction line %d: %w", i+1, err)
		}
	}

	return nil
}
