package services

import (
	"errors"
	"time"

	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

func (suite *ServiceTestSuite) sell(lines ...SaleItemRequest) *models.Sale {
	sale, err := suite.sales.CreateSale(&CreateSaleRequest{Items: lines, PaymentMethod: strPtr(models.PaymentMethodCash)})
	suite.Require().NoError(err)
	return sale
}

func (suite *ServiceTestSuite) setSaleTime(id uint, at time.Time) {
	suite.Require().NoError(suite.db.Model(&models.Sale{}).Where("id = ?", id).Update("created_at", at).Error)
}

func (suite *ServiceTestSuite) TestCreateSale() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)
	chips := suite.createProduct("Chips", "SN-1", 2.0, 3, nil)

	sale, err := suite.sales.CreateSale(&CreateSaleRequest{
		Items: []SaleItemRequest{
			{ProductID: cola.ID, Quantity: 4},
			{ProductID: chips.ID, Quantity: 5},
		},
		PaymentMethod: strPtr(models.PaymentMethodCard),
		Notes:         strPtr(" "),
	})
	suite.Require().NoError(err)
	suite.NotZero(sale.ID)
	suite.InDelta(15.0, sale.TotalAmount, 0.0001)
	suite.Equal(models.PaymentMethodCard, *sale.PaymentMethod)
	suite.Nil(sale.Notes)
	suite.Require().Len(sale.Items, 2)
	suite.Equal(1.25, sale.Items[0].UnitPrice)
	suite.InDelta(5.0, sale.Items[0].Subtotal, 0.0001)
	suite.Equal("Chips", sale.Items[1].ProductName)

	product, err := suite.products.GetProduct(cola.ID)
	suite.Require().NoError(err)
	suite.Equal(6, product.Quantity)

	// selling past zero leaves negative stock
	product, err = suite.products.GetProduct(chips.ID)
	suite.Require().NoError(err)
	suite.Equal(-2, product.Quantity)
}

func (suite *ServiceTestSuite) TestCreateSaleRejectsBadRequests() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)

	_, err := suite.sales.CreateSale(&CreateSaleRequest{})
	suite.ErrorIs(err, ErrEmptySale)

	_, err = suite.sales.CreateSale(&CreateSaleRequest{Items: []SaleItemRequest{{ProductID: cola.ID, Quantity: 0}}})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")

	_, err = suite.sales.CreateSale(&CreateSaleRequest{Items: []SaleItemRequest{
		{ProductID: cola.ID, Quantity: 2},
		{ProductID: 999, Quantity: 1},
	}})
	suite.Require().Error(err)
	suite.True(errors.Is(err, ErrProductNotFound))
	suite.Contains(err.Error(), "999")

	// nothing from the failed sale is kept
	var sales, items int64
	suite.Require().NoError(suite.db.Model(&models.Sale{}).Count(&sales).Error)
	suite.Require().NoError(suite.db.Model(&models.SaleItem{}).Count(&items).Error)
	suite.Zero(sales)
	suite.Zero(items)

	product, err := suite.products.GetProduct(cola.ID)
	suite.Require().NoError(err)
	suite.Equal(10, product.Quantity)
}

func (suite *ServiceTestSuite) TestCreateSaleSkipsDeletedProducts() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)
	suite.Require().NoError(suite.products.DeleteProduct(cola.ID))

	_, err := suite.sales.CreateSale(&CreateSaleRequest{Items: []SaleItemRequest{{ProductID: cola.ID, Quantity: 1}}})
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *ServiceTestSuite) TestGetSaleKeepsSoldPrices() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)
	sale := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 2})

	price := 9.99
	_, err := suite.products.UpdateProduct(cola.ID, &UpdateProductRequest{Price: &price})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.products.DeleteProduct(cola.ID))

	loaded, err := suite.sales.GetSale(sale.ID)
	suite.Require().NoError(err)
	suite.InDelta(2.5, loaded.TotalAmount, 0.0001)
	suite.Equal(models.PaymentMethodCash, *loaded.PaymentMethod)
	suite.Require().Len(loaded.Items, 1)
	suite.Equal(1.25, loaded.Items[0].UnitPrice)
	suite.Equal("Cola", loaded.Items[0].ProductName)

	_, err = suite.sales.GetSale(999)
	suite.ErrorIs(err, ErrSaleNotFound)
}

func (suite *ServiceTestSuite) TestListSales() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 100, nil)
	first := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 1})
	second := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 2})
	third := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 3})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.setSaleTime(first.ID, base)
	suite.setSaleTime(second.ID, base.Add(time.Hour))
	suite.setSaleTime(third.ID, base.Add(2*time.Hour))

	sales, total, err := suite.sales.ListSales(utils.PaginationParams{Page: 1, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(sales, 2)
	suite.Equal(third.ID, sales[0].ID)
	suite.Equal(second.ID, sales[1].ID)

	sales, _, err = suite.sales.ListSales(utils.PaginationParams{Page: 2, Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(sales, 1)
	suite.Equal(first.ID, sales[0].ID)
}

func (suite *ServiceTestSuite) TestListSalesByDateRange() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 100, nil)
	before := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 1})
	morning := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 1})
	evening := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 1})
	after := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 1})

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.setSaleTime(before.ID, day.Add(-time.Minute))
	suite.setSaleTime(morning.ID, day.Add(9*time.Hour))
	suite.setSaleTime(evening.ID, day.Add(21*time.Hour))
	suite.setSaleTime(after.ID, day.Add(24*time.Hour+time.Minute))

	sales, err := suite.sales.ListSalesByDateRange(day, day.Add(24*time.Hour-time.Nanosecond))
	suite.Require().NoError(err)
	suite.Require().Len(sales, 2)
	suite.Equal(evening.ID, sales[0].ID)
	suite.Equal(morning.ID, sales[1].ID)
	suite.True(sales[1].CreatedAt.Equal(day.Add(9 * time.Hour)))

	sales, err = suite.sales.ListSalesByDateRange(day.AddDate(1, 0, 0), day.AddDate(1, 0, 1))
	suite.Require().NoError(err)
	suite.Empty(sales)
}

func (suite *ServiceTestSuite) TestDeleteSale() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)
	sale := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 4})

	suite.Require().NoError(suite.sales.DeleteSale(sale.ID))

	var items int64
	suite.Require().NoError(suite.db.Model(&models.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&items).Error)
	suite.Zero(items)

	_, err := suite.sales.GetSale(sale.ID)
	suite.ErrorIs(err, ErrSaleNotFound)
	suite.ErrorIs(suite.sales.DeleteSale(sale.ID), ErrSaleNotFound)

	// stock is not given back
	product, err := suite.products.GetProduct(cola.ID)
	suite.Require().NoError(err)
	suite.Equal(6, product.Quantity)
}
