package services

import (
	"strings"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

func (suite *ServiceTestSuite) TestCreateProduct() {
	snacks := suite.createCategory("Snacks")

	product := suite.createProduct("Chips", "SN-1", 1.5, 10, &snacks.ID)
	suite.NotZero(product.ID)
	suite.Equal("SN-1", *product.SKU)
	suite.Equal(snacks.ID, *product.CategoryID)
	suite.Require().NotNil(product.CategoryName)
	suite.Equal("Snacks", *product.CategoryName)
	suite.False(product.CreatedAt.IsZero())
	suite.False(product.UpdatedAt.IsZero())

	_, err := suite.products.CreateProduct(&CreateProductRequest{Name: "Crisps", SKU: strPtr("SN-1")})
	suite.ErrorIs(err, ErrDuplicateSKU)

	missing := uint(42)
	_, err = suite.products.CreateProduct(&CreateProductRequest{Name: "Ghost", CategoryID: &missing})
	suite.ErrorIs(err, ErrCategoryNotFound)

	_, err = suite.products.CreateProduct(&CreateProductRequest{Name: "Bad", Price: -1})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")
}

func (suite *ServiceTestSuite) TestBlankSKUsDoNotCollide() {
	first := suite.createProduct("Loose candy", "", 0.2, 100, nil)
	second, err := suite.products.CreateProduct(&CreateProductRequest{Name: "Loose nuts", SKU: strPtr("  ")})
	suite.Require().NoError(err)

	suite.Nil(first.SKU)
	suite.Nil(second.SKU)
	suite.Nil(first.CategoryName)
}

func (suite *ServiceTestSuite) TestSearchProducts() {
	beverages := suite.createCategory("Beverages")
	snacks := suite.createCategory("Snacks")
	suite.createProduct("Cola", "BEV-1", 1.2, 10, &beverages.ID)
	suite.createProduct("Orange juice", "BEV-2", 2.5, 10, &beverages.ID)
	suite.createProduct("Chips", "SN-1", 1.5, 10, &snacks.ID)
	suite.createProduct("Chocolate", "SN-2", 3.0, 10, nil)

	names := func(products []models.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	search := func(params ProductSearchParams) ([]string, int64) {
		if params.Limit == 0 {
			params.Page, params.Limit = 1, 50
		}
		products, total, err := suite.products.SearchProducts(params)
		suite.Require().NoError(err)
		return names(products), total
	}

	all, total := search(ProductSearchParams{})
	suite.Equal([]string{"Chips", "Chocolate", "Cola", "Orange juice"}, all)
	suite.Equal(int64(4), total)

	byName, _ := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Search: "CHO"}})
	suite.Equal([]string{"Chocolate"}, byName)

	bySKU, _ := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Search: "bev-"}})
	suite.Equal([]string{"Cola", "Orange juice"}, bySKU)

	byCategory, _ := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Search: "snack"}})
	suite.Equal([]string{"Chips"}, byCategory)

	inCategory, total := search(ProductSearchParams{CategoryID: &beverages.ID})
	suite.Equal([]string{"Cola", "Orange juice"}, inCategory)
	suite.Equal(int64(2), total)

	byPrice, _ := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Sort: "price", Order: "desc"}})
	suite.Equal([]string{"Chocolate", "Orange juice", "Chips", "Cola"}, byPrice)

	page, total := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Page: 2, Limit: 3}})
	suite.Equal([]string{"Orange juice"}, page)
	suite.Equal(int64(4), total)

	// sorting by an unknown field falls back to name
	fallback, _ := search(ProductSearchParams{PaginationParams: utils.PaginationParams{Sort: "1; DROP TABLE products"}})
	suite.Equal(all, fallback)
}

func (suite *ServiceTestSuite) TestLowStockProducts() {
	suite.createProduct("Plenty", "P-1", 1, 50, nil)
	suite.createProduct("At threshold", "P-2", 1, 5, nil)
	suite.createProduct("Empty", "P-3", 1, 0, nil)
	gone := suite.createProduct("Deleted", "P-4", 1, 1, nil)
	suite.Require().NoError(suite.products.DeleteProduct(gone.ID))

	products, err := suite.products.GetLowStockProducts()
	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("Empty", products[0].Name)
	suite.Equal("At threshold", products[1].Name)
	suite.True(products[1].LowStock())
}

func (suite *ServiceTestSuite) TestUpdateProduct() {
	snacks := suite.createCategory("Snacks")
	chips := suite.createProduct("Chips", "SN-1", 1.5, 10, &snacks.ID)
	suite.createProduct("Pretzels", "SN-2", 2.0, 10, &snacks.ID)

	price := 1.75
	updated, err := suite.products.UpdateProduct(chips.ID, &UpdateProductRequest{Name: strPtr("Salted chips"), Price: &price})
	suite.Require().NoError(err)
	suite.Equal("Salted chips", updated.Name)
	suite.Equal(1.75, updated.Price)
	suite.Equal(10, updated.Quantity)
	suite.Equal("Snacks", *updated.CategoryName)
	suite.False(updated.UpdatedAt.Before(chips.UpdatedAt))

	none := uint(0)
	updated, err = suite.products.UpdateProduct(chips.ID, &UpdateProductRequest{CategoryID: &none})
	suite.Require().NoError(err)
	suite.Nil(updated.CategoryID)

	_, err = suite.products.UpdateProduct(chips.ID, &UpdateProductRequest{SKU: strPtr("SN-2")})
	suite.ErrorIs(err, ErrDuplicateSKU)

	missing := uint(77)
	_, err = suite.products.UpdateProduct(chips.ID, &UpdateProductRequest{CategoryID: &missing})
	suite.ErrorIs(err, ErrCategoryNotFound)

	_, err = suite.products.UpdateProduct(999, &UpdateProductRequest{Name: strPtr("Ghost")})
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *ServiceTestSuite) TestDeleteProductIsSoftAndFreesSKU() {
	chips := suite.createProduct("Chips", "SN-1", 1.5, 10, nil)

	suite.Require().NoError(suite.products.DeleteProduct(chips.ID))

	_, err := suite.products.GetProduct(chips.ID)
	suite.ErrorIs(err, ErrProductNotFound)
	suite.ErrorIs(suite.products.DeleteProduct(chips.ID), ErrProductNotFound)

	var row models.Product
	suite.Require().NoError(suite.db.Unscoped().First(&row, chips.ID).Error)
	suite.True(row.DeletedAt.Valid)
	suite.Require().NotNil(row.SKU)
	suite.True(strings.HasPrefix(*row.SKU, "SN-1_del_"), *row.SKU)

	// the SKU can be given to a new product
	replacement := suite.createProduct("Chips v2", "SN-1", 1.6, 5, nil)
	suite.NotEqual(chips.ID, replacement.ID)

	products, total, err := suite.products.SearchProducts(ProductSearchParams{PaginationParams: utils.PaginationParams{Page: 1, Limit: 10}})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Chips v2", products[0].Name)

	noSKU := suite.createProduct("Loose candy", "", 0.2, 10, nil)
	suite.Require().NoError(suite.products.DeleteProduct(noSKU.ID))

	var unlabelled models.Product
	suite.Require().NoError(suite.db.Unscoped().First(&unlabelled, noSKU.ID).Error)
	suite.True(unlabelled.DeletedAt.Valid)
	suite.Nil(unlabelled.SKU)
}

func (suite *ServiceTestSuite) TestAdjustQuantity() {
	hook := logtest.NewGlobal()
	defer logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))

	chips := suite.createProduct("Chips", "SN-1", 1.5, 10, nil)

	product, err := suite.products.AdjustQuantity(chips.ID, 5)
	suite.Require().NoError(err)
	suite.Equal(15, product.Quantity)
	suite.Empty(lowStockWarnings(hook))

	product, err = suite.products.AdjustQuantity(chips.ID, -20)
	suite.Require().NoError(err)
	suite.Equal(-5, product.Quantity)

	warnings := lowStockWarnings(hook)
	suite.Require().Len(warnings, 1)
	suite.Equal(chips.ID, warnings[0].Data["product_id"])
	suite.Equal(-5, warnings[0].Data["quantity"])

	_, err = suite.products.AdjustQuantity(999, 1)
	suite.ErrorIs(err, ErrProductNotFound)
}

func lowStockWarnings(hook *logtest.Hook) []*logrus.Entry {
	var entries []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "Product stock at or below reorder point" {
			entries = append(entries, entry)
		}
	}
	return entries
}
