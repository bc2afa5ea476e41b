package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo        repositories.ProductRepository
	validate    *validator.Validate
	strictPatch bool
}

// NewProductService creates a new ProductService. With strictPatch set, every
// field present in an update overwrites the stored value, including "" and 0.
func NewProductService(repo repositories.ProductRepository, strictPatch bool) *ProductService {
	return &ProductService{
		repo:        repo,
		validate:    validator.New(),
		strictPatch: strictPatch,
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}
	return product, nil
}

// CreateProduct validates and stores a new product. The id and timestamps are
// assigned by the store.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = ""
	if err := s.validate.Struct(product); err != nil {
		return nil, validationError(err)
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, mapProductError(err)
	}
	log.WithFields(log.Fields{"product_id": product.ID, "name": product.Name}).Info("Product created")
	return product, nil
}

// UpdateProduct merges patch into the stored product and saves it.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	patch.Apply(product, s.strictPatch)
	if err := s.validate.Struct(product); err != nil {
		return nil, validationError(err)
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, mapProductError(err)
	}
	log.WithField("product_id", product.ID).Info("Product updated")
	return product, nil
}

// DeleteProduct removes a product. Deleting an unknown product succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
	log.WithField("product_id", id).Info("Product deleted")
	return nil
}

func mapProductError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %w", apperror.ErrDuplicateName, err)
	default:
		return fmt.Errorf("%w: %w", apperror.ErrStoreFailure, err)
	}
}
