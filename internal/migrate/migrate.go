package migrate

import (
	"context"

	"shop-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool // CHECK-constraint для статусов, остатков и количеств
	CreateIndexes          bool // UNIQUE(lower(...)) и индексы выборок
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

var checkSteps = []step{
	{"accounts.role", `
ALTER TABLE accounts DROP CONSTRAINT IF EXISTS chk_accounts_role_allowed;
ALTER TABLE accounts ADD CONSTRAINT chk_accounts_role_allowed
  CHECK (role IN ('SUPER','ADMIN','USER'));`},
	{"products.status", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_status_allowed;
ALTER TABLE products ADD CONSTRAINT chk_products_status_allowed
  CHECK (status IN ('PREPARING','IN_STOCK','SOLD_OUT','DELETED'));`},
	{"products.stock_count", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative
  CHECK (stock_count >= 0);`},
	{"products.price", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative
  CHECK (price >= 0);`},
	{"orders.status", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('ORDERED'));`},
	{"order_lines.quantity", `
ALTER TABLE order_lines DROP CONSTRAINT IF EXISTS chk_order_lines_quantity_gt_zero;
ALTER TABLE order_lines ADD CONSTRAINT chk_order_lines_quantity_gt_zero
  CHECK (quantity > 0);`},
	{"order_lines.total_price", `
ALTER TABLE order_lines DROP CONSTRAINT IF EXISTS chk_order_lines_total_non_negative;
ALTER TABLE order_lines ADD CONSTRAINT chk_order_lines_total_non_negative
  CHECK (total_price >= 0);`},
	{"cart_lines.quantity", `
ALTER TABLE cart_lines DROP CONSTRAINT IF EXISTS chk_cart_lines_quantity_gt_zero;
ALTER TABLE cart_lines ADD CONSTRAINT chk_cart_lines_quantity_gt_zero
  CHECK (quantity > 0);`},
}

var indexSteps = []step{
	{"ux_accounts_username_lower", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_username_lower ON accounts (lower(username));`},
	{"ux_accounts_email_lower", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_accounts_email_lower ON accounts (lower(email));`},
	{"ux_order_lines_order_product", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_lines_order_product ON order_lines (order_id, product_id);`},
	{"ux_cart_lines_cart_product", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_cart_lines_cart_product ON cart_lines (cart_id, product_id);`},
	{"ix_orders_account_created", `
CREATE INDEX IF NOT EXISTS ix_orders_account_created ON orders (account_id, created_at DESC);`},
	{"ix_products_status_created", `
CREATE INDEX IF NOT EXISTS ix_products_status_created ON products (status, created_at DESC);`},
}

var fkSteps = []step{
	{"orders.account_id -> accounts.id", `
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_account,
  ADD CONSTRAINT fk_orders_account
    FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE RESTRICT;`},
	{"order_lines.order_id -> orders.id", `
ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS fk_order_lines_order,
  ADD CONSTRAINT fk_order_lines_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;`},
	{"order_lines.product_id -> products.id", `
ALTER TABLE order_lines
  DROP CONSTRAINT IF EXISTS fk_order_lines_product,
  ADD CONSTRAINT fk_order_lines_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT;`},
	{"cart_lines.cart_id -> carts.id", `
ALTER TABLE cart_lines
  DROP CONSTRAINT IF EXISTS fk_cart_lines_cart,
  ADD CONSTRAINT fk_cart_lines_cart
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE;`},
}

const updatedAtTrigger = `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_accounts_updated ON accounts;
CREATE TRIGGER trg_accounts_updated BEFORE UPDATE ON accounts
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_order_lines_updated ON order_lines;
CREATE TRIGGER trg_order_lines_updated BEFORE UPDATE ON order_lines
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`

func runSteps(ctx context.Context, db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateShopDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных магазина")

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц accounts, products, orders, order_lines, carts, cart_lines")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Cart{},
		&models.CartLine{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.WithContext(ctx).Exec(updatedAtTrigger).Error; err != nil {
			log.Error("Не удалось создать триггер updated_at", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := runSteps(ctx, db, log, checkSteps); err != nil {
			return err
		}
		log.Info("CHECK-ограничения успешно созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := runSteps(ctx, db, log, indexSteps); err != nil {
			return err
		}
		log.Info("Индексы успешно созданы")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		if err := runSteps(ctx, db, log, fkSteps); err != nil {
			return err
		}
		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных магазина успешно завершена")
	return nil
}
