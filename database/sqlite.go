package database

import (
	"fmt"

	"gorm.io/gorm"
)

// sqliteSchema mirrors the gorm models with SQLite-compatible DDL. AutoMigrate
// cannot be used against SQLite because the model tags carry PostgreSQL
// defaults such as gen_random_uuid().
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "users" (
		"id" TEXT PRIMARY KEY,
		"email" TEXT NOT NULL UNIQUE,
		"password" TEXT NOT NULL,
		"first_name" TEXT,
		"last_name" TEXT,
		"phone" TEXT,
		"role" TEXT NOT NULL DEFAULT 'customer',
		"is_active" INTEGER DEFAULT 1,
		"is_verified" INTEGER DEFAULT 0,
		"profile_picture_url" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		"deleted_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_deleted_at ON "users"("deleted_at")`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON "users"("role")`,

	`CREATE TABLE IF NOT EXISTS "sellers" (
		"id" TEXT PRIMARY KEY,
		"user_id" TEXT NOT NULL UNIQUE,
		"business_name" TEXT NOT NULL,
		"business_type" TEXT,
		"address" TEXT NOT NULL,
		"city" TEXT,
		"state" TEXT,
		"pincode" TEXT,
		"is_verified" INTEGER DEFAULT 0,
		"is_approved" INTEGER DEFAULT 0,
		"approval_date" DATETIME,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		CONSTRAINT fk_sellers_user FOREIGN KEY ("user_id") REFERENCES "users"("id")
	)`,

	`CREATE TABLE IF NOT EXISTS "categories" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		"slug" TEXT NOT NULL UNIQUE,
		"description" TEXT,
		"parent_id" TEXT,
		"level" INTEGER DEFAULT 1,
		"sort_order" INTEGER DEFAULT 0,
		"is_active" INTEGER DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		"deleted_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_deleted_at ON "categories"("deleted_at")`,
	`CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON "categories"("parent_id")`,

	`CREATE TABLE IF NOT EXISTS "attributes" (
		"id" TEXT PRIMARY KEY,
		"name" TEXT NOT NULL,
		"type" TEXT NOT NULL,
		"is_required" INTEGER DEFAULT 0,
		"sort_order" INTEGER DEFAULT 0,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,

	`CREATE TABLE IF NOT EXISTS "attribute_values" (
		"id" TEXT PRIMARY KEY,
		"attribute_id" TEXT NOT NULL,
		"value" TEXT NOT NULL,
		"sort_order" INTEGER DEFAULT 0,
		"created_at" DATETIME,
		CONSTRAINT fk_attribute_values_attribute FOREIGN KEY ("attribute_id") REFERENCES "attributes"("id")
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attribute_values_attribute_id ON "attribute_values"("attribute_id")`,

	`CREATE TABLE IF NOT EXISTS "category_attributes" (
		"id" TEXT PRIMARY KEY,
		"category_id" TEXT NOT NULL,
		"attribute_id" TEXT NOT NULL,
		"is_required" INTEGER DEFAULT 0,
		"is_variant" INTEGER DEFAULT 0,
		"created_at" DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_category_attribute ON "category_attributes"("category_id", "attribute_id")`,

	`CREATE TABLE IF NOT EXISTS "products" (
		"id" TEXT PRIMARY KEY,
		"seller_id" TEXT NOT NULL,
		"category_id" TEXT NOT NULL,
		"name" TEXT NOT NULL,
		"slug" TEXT NOT NULL UNIQUE,
		"description" TEXT,
		"short_description" TEXT,
		"sku" TEXT,
		"seller_price" REAL NOT NULL,
		"commission_rate" REAL NOT NULL,
		"commission_amount" REAL NOT NULL,
		"customer_price" REAL NOT NULL,
		"stock_quantity" INTEGER DEFAULT 0,
		"status" TEXT DEFAULT 'draft',
		"admin_notes" TEXT,
		"approval_date" DATETIME,
		"is_active" INTEGER DEFAULT 1,
		"tags" TEXT,
		"meta_title" TEXT,
		"meta_description" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_seller_id ON "products"("seller_id")`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON "products"("category_id")`,
	`CREATE INDEX IF NOT EXISTS idx_products_status ON "products"("status")`,

	`CREATE TABLE IF NOT EXISTS "product_images" (
		"id" TEXT PRIMARY KEY,
		"product_id" TEXT NOT NULL,
		"image_url" TEXT NOT NULL,
		"alt_text" TEXT,
		"is_primary" INTEGER DEFAULT 0,
		"sort_order" INTEGER DEFAULT 0,
		"created_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_images_product_id ON "product_images"("product_id")`,

	`CREATE TABLE IF NOT EXISTS "product_variants" (
		"id" TEXT PRIMARY KEY,
		"product_id" TEXT NOT NULL,
		"variant_name" TEXT,
		"sku" TEXT,
		"seller_price" REAL NOT NULL,
		"commission_rate" REAL NOT NULL,
		"commission_amount" REAL NOT NULL,
		"customer_price" REAL NOT NULL,
		"stock_quantity" INTEGER DEFAULT 0,
		"is_active" INTEGER DEFAULT 1,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_variants_product_id ON "product_variants"("product_id")`,

	`CREATE TABLE IF NOT EXISTS "product_variant_attributes" (
		"id" TEXT PRIMARY KEY,
		"variant_id" TEXT NOT NULL,
		"attribute_id" TEXT NOT NULL,
		"attribute_value_id" TEXT NOT NULL,
		"created_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_variant_attributes_variant_id ON "product_variant_attributes"("variant_id")`,

	`CREATE TABLE IF NOT EXISTS "commission_settings" (
		"id" TEXT PRIMARY KEY,
		"type" TEXT NOT NULL,
		"entity_id" TEXT,
		"commission_rate" REAL NOT NULL,
		"min_seller_price" REAL DEFAULT 0,
		"max_seller_price" REAL,
		"is_active" INTEGER DEFAULT 1,
		"effective_from" DATETIME,
		"effective_until" DATETIME,
		"created_at" DATETIME,
		"updated_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_commission_settings_type ON "commission_settings"("type")`,

	`CREATE TABLE IF NOT EXISTS "orders" (
		"id" TEXT PRIMARY KEY,
		"order_number" TEXT NOT NULL UNIQUE,
		"customer_id" TEXT NOT NULL,
		"status" TEXT DEFAULT 'pending',
		"payment_status" TEXT DEFAULT 'cod_pending',
		"total_amount" REAL NOT NULL,
		"delivery_address" TEXT,
		"delivery_city" TEXT,
		"delivery_state" TEXT,
		"delivery_pincode" TEXT,
		"phone" TEXT,
		"notes" TEXT,
		"admin_notes" TEXT,
		"created_at" DATETIME,
		"updated_at" DATETIME,
		"deleted_at" DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_deleted_at ON "orders"("deleted_at")`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON "orders"("status")`,

	`CREATE TABLE IF NOT EXISTS "order_items" (
		"id" TEXT PRIMARY KEY,
		"order_id" TEXT NOT NULL,
		"product_id" TEXT NOT NULL,
		"variant_id" TEXT,
		"seller_id" TEXT NOT NULL,
		"product_name" TEXT,
		"quantity" INTEGER NOT NULL,
		"unit_price" REAL NOT NULL,
		"total_price" REAL NOT NULL,
		"created_at" DATETIME,
		CONSTRAINT fk_order_items_order FOREIGN KEY ("order_id") REFERENCES "orders"("id")
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON "order_items"("order_id")`,
}

// Tables lists every table in dependency order, children first.
var Tables = []string{
	"order_items",
	"orders",
	"product_variant_attributes",
	"product_variants",
	"product_images",
	"products",
	"commission_settings",
	"category_attributes",
	"attribute_values",
	"attributes",
	"categories",
	"sellers",
	"users",
}

// MigrateSQLite creates every table on a SQLite connection.
func MigrateSQLite(db *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
	}
	return nil
}

// Truncate deletes all rows from every table.
func Truncate(db *gorm.DB) error {
	for _, table := range Tables {
		if err := db.Exec(fmt.Sprintf(`DELETE FROM "%s"`, table)).Error; err != nil {
			return err
		}
	}
	return nil
}
