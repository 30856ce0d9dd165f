package services

import (
	"time"
)

func (suite *ServiceTestSuite) TestRestock() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 2, nil)

	product, err := suite.inventory.Restock(cola.ID, &RestockRequest{Quantity: 10})
	suite.Require().NoError(err)
	suite.Equal(12, product.Quantity)
	suite.Equal(cola.Cost, product.Cost)

	cost := 0.55
	product, err = suite.inventory.Restock(cola.ID, &RestockRequest{Quantity: 3, Cost: &cost})
	suite.Require().NoError(err)
	suite.Equal(15, product.Quantity)
	suite.Equal(0.55, product.Cost)

	_, err = suite.inventory.Restock(cola.ID, &RestockRequest{Quantity: 0})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")

	_, err = suite.inventory.Restock(999, &RestockRequest{Quantity: 1})
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *ServiceTestSuite) TestProductSalesHistory() {
	cola := suite.createProduct("Cola", "BEV-1", 1.25, 100, nil)
	chips := suite.createProduct("Chips", "SN-1", 2.0, 100, nil)

	first := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 2}, SaleItemRequest{ProductID: chips.ID, Quantity: 1})
	price := 1.5
	_, err := suite.products.UpdateProduct(cola.ID, &UpdateProductRequest{Price: &price})
	suite.Require().NoError(err)
	second := suite.sell(SaleItemRequest{ProductID: cola.ID, Quantity: 4})

	suite.setSaleTime(first.ID, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	suite.setSaleTime(second.ID, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))

	history, err := suite.inventory.GetProductSalesHistory(cola.ID)
	suite.Require().NoError(err)
	suite.Equal(cola.ID, history.ProductID)
	suite.Equal("Cola", history.ProductName)
	suite.Equal(6, history.TotalQuantity)
	suite.InDelta(8.5, history.TotalRevenue, 0.0001)
	suite.Require().Len(history.Sales, 2)
	suite.Equal(second.ID, history.Sales[0].SaleID)
	suite.Equal(1.5, history.Sales[0].UnitPrice)
	suite.Equal(first.ID, history.Sales[1].SaleID)
	suite.Equal(1.25, history.Sales[1].UnitPrice)
	suite.True(history.Sales[1].Date.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	unsold := suite.createProduct("Gum", "SN-2", 0.5, 10, nil)
	history, err = suite.inventory.GetProductSalesHistory(unsold.ID)
	suite.Require().NoError(err)
	suite.Empty(history.Sales)
	suite.Zero(history.TotalQuantity)

	_, err = suite.inventory.GetProductSalesHistory(999)
	suite.ErrorIs(err, ErrProductNotFound)
}
