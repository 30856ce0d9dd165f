// internal/database/migrations/inventory.go
package migrations

// The scripts of versions 1 and 2 are the desktop shell's own, byte for byte.
// Its SQL plugin verifies the checksums recorded in _sqlx_migrations on every
// start, so any edit here locks the desktop app out of the store.

const createInitialTables = `
                CREATE TABLE IF NOT EXISTS products (
                    id INTEGER PRIMARY KEY AUTOINCREMENT,
                    name TEXT NOT NULL,
                    description TEXT,
                    sku TEXT UNIQUE,
                    price REAL NOT NULL DEFAULT 0,
                    cost REAL NOT NULL DEFAULT 0,
                    quantity INTEGER NOT NULL DEFAULT 0,
                    min_quantity INTEGER NOT NULL DEFAULT 0,
                    category TEXT,
                    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
                    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
                );

                CREATE TABLE IF NOT EXISTS sales (
                    id INTEGER PRIMARY KEY AUTOINCREMENT,
                    total_amount REAL NOT NULL,
                    payment_method TEXT,
                    notes TEXT,
                    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
                );

                CREATE TABLE IF NOT EXISTS sale_items (
                    id INTEGER PRIMARY KEY AUTOINCREMENT,
                    sale_id INTEGER NOT NULL,
                    product_id INTEGER NOT NULL,
                    quantity INTEGER NOT NULL,
                    unit_price REAL NOT NULL,
                    subtotal REAL NOT NULL,
                    FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE,
                    FOREIGN KEY (product_id) REFERENCES products(id)
                );

                CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);
                CREATE INDEX IF NOT EXISTS idx_sale_items_sale_id ON sale_items(sale_id);
            `

const addCategoriesTable = `
                CREATE TABLE IF NOT EXISTS categories (
                    id INTEGER PRIMARY KEY AUTOINCREMENT,
                    name TEXT NOT NULL UNIQUE,
                    description TEXT,
                    color TEXT,
                    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
                );

                -- Migrate existing categories from products table
                INSERT OR IGNORE INTO categories (name)
                SELECT DISTINCT category FROM products WHERE category IS NOT NULL AND category != '';

                -- Add category_id column to products
                ALTER TABLE products ADD COLUMN category_id INTEGER REFERENCES categories(id);

                -- Update category_id based on existing category names
                UPDATE products SET category_id = (
                    SELECT id FROM categories WHERE categories.name = products.category
                ) WHERE category IS NOT NULL AND category != '';

                CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
            `

const addProductSoftDelete = `
ALTER TABLE products ADD COLUMN deleted_at DATETIME DEFAULT NULL;
`

const dropProductSoftDelete = `
ALTER TABLE products DROP COLUMN deleted_at;
`

// Desktop returns the migrations shared with the desktop shell, recorded in
// its history table. They have no down scripts.
func Desktop(opts ...Option) *Manager {
	m := NewManager(opts...)
	m.MustRegister(1, "create_initial_tables", createInitialTables, KindUp)
	m.MustRegister(2, "add_categories_table", addCategoriesTable, KindUp)
	return m
}

// Local returns the migrations only this service runs. They are recorded in
// LocalHistoryTable because the desktop shell refuses to open a store whose
// _sqlx_migrations lists versions it does not ship.
func Local(opts ...Option) *Manager {
	opts = append(append([]Option{}, opts...), WithHistoryTable(LocalHistoryTable))

	m := NewManager(opts...)
	m.MustRegister(3, "add_product_soft_delete", addProductSoftDelete, KindUp)
	m.MustRegister(3, "add_product_soft_delete", dropProductSoftDelete, KindDown)
	return m
}

// Inventory returns the full schema history of the inventory store. Version 2
// has no down script: the store cannot be rolled back below it.
func Inventory(opts ...Option) *Schema {
	return NewSchema(Desktop(opts...), Local(opts...))
}
