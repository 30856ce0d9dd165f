package services

import (
	"github.com/javajoker/inventory-pos/internal/models"
)

func (suite *ServiceTestSuite) TestCreateAndListCategories() {
	suite.createCategory("Snacks")
	beverages, err := suite.categories.CreateCategory(&CreateCategoryRequest{
		Name:        "  Beverages ",
		Description: strPtr("Cold drinks"),
		Color:       strPtr("#3B82F6"),
	})
	suite.Require().NoError(err)
	suite.Equal("Beverages", beverages.Name)
	suite.NotZero(beverages.CreatedAt)

	categories, err := suite.categories.ListCategories()
	suite.Require().NoError(err)
	suite.Require().Len(categories, 2)
	suite.Equal("Beverages", categories[0].Name)
	suite.Equal("Snacks", categories[1].Name)
	suite.Equal("#3B82F6", *categories[0].Color)
}

func (suite *ServiceTestSuite) TestCreateCategoryRejectsDuplicatesAndBadInput() {
	suite.createCategory("Snacks")

	_, err := suite.categories.CreateCategory(&CreateCategoryRequest{Name: "Snacks"})
	suite.ErrorIs(err, ErrCategoryExists)

	_, err = suite.categories.CreateCategory(&CreateCategoryRequest{Name: "Tea", Color: strPtr("green")})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")

	_, err = suite.categories.CreateCategory(&CreateCategoryRequest{})
	suite.Require().Error(err)
}

func (suite *ServiceTestSuite) TestUpdateCategory() {
	snacks := suite.createCategory("Snacks")
	suite.createCategory("Beverages")

	updated, err := suite.categories.UpdateCategory(snacks.ID, &UpdateCategoryRequest{Description: strPtr("Crisps and nuts")})
	suite.Require().NoError(err)
	suite.Equal("Snacks", updated.Name)
	suite.Equal("Crisps and nuts", *updated.Description)

	updated, err = suite.categories.UpdateCategory(snacks.ID, &UpdateCategoryRequest{Name: strPtr("Sweets")})
	suite.Require().NoError(err)
	suite.Equal("Sweets", updated.Name)
	suite.Equal("Crisps and nuts", *updated.Description)

	_, err = suite.categories.UpdateCategory(snacks.ID, &UpdateCategoryRequest{Name: strPtr("Beverages")})
	suite.ErrorIs(err, ErrCategoryExists)

	_, err = suite.categories.UpdateCategory(999, &UpdateCategoryRequest{Name: strPtr("Ghost")})
	suite.ErrorIs(err, ErrCategoryNotFound)

	unchanged, err := suite.categories.UpdateCategory(snacks.ID, &UpdateCategoryRequest{})
	suite.Require().NoError(err)
	suite.Equal("Sweets", unchanged.Name)
}

func (suite *ServiceTestSuite) TestDeleteCategoryDetachesProducts() {
	snacks := suite.createCategory("Snacks")
	chips := suite.createProduct("Chips", "SN-1", 1.5, 10, &snacks.ID)

	suite.Require().NoError(suite.categories.DeleteCategory(snacks.ID))

	product, err := suite.products.GetProduct(chips.ID)
	suite.Require().NoError(err)
	suite.Nil(product.CategoryID)
	suite.Nil(product.CategoryName)

	_, err = suite.categories.GetCategory(snacks.ID)
	suite.ErrorIs(err, ErrCategoryNotFound)
	suite.ErrorIs(suite.categories.DeleteCategory(snacks.ID), ErrCategoryNotFound)
}

func (suite *ServiceTestSuite) TestDeleteCategoryDetachesDeletedProducts() {
	snacks := suite.createCategory("Snacks")
	chips := suite.createProduct("Chips", "SN-1", 1.5, 10, &snacks.ID)
	suite.Require().NoError(suite.products.DeleteProduct(chips.ID))

	suite.Require().NoError(suite.categories.DeleteCategory(snacks.ID))

	var product models.Product
	suite.Require().NoError(suite.db.Unscoped().First(&product, chips.ID).Error)
	suite.Nil(product.CategoryID)
}
