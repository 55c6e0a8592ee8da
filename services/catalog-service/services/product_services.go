package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	awspkg "github.com/lumora-candles/backend/pkg/aws"
	apperrors "github.com/lumora-candles/backend/services/common/errors"
	"github.com/lumora-candles/backend/services/catalog-service/models"
	"github.com/lumora-candles/backend/services/catalog-service/repository"
)

// ListProductsParams defines the parameters for listing the catalog.
type ListProductsParams struct {
	Page     int
	PerPage  int
	Category string
}

// ProductCreateRequest carries a validated create submission.
type ProductCreateRequest struct {
	Name        string
	Price       float64
	Category    string
	Image       string
	Stock       int
	Description string
}

// ReviewRequest carries a validated review submission.
type ReviewRequest struct {
	Name    string
	Rating  int
	Comment string
	Image   string
}

// PresignedUpload is the result of a presigned image-upload request. The
// upload itself happens directly against the object store; the catalog only
// hands out the URL.
type PresignedUpload struct {
	UploadURL string            `json:"uploadUrl"`
	Key       string            `json:"key"`
	PublicURL string            `json:"publicUrl"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// S3Config holds the object-store settings for presigned image uploads.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	CDNDomain string
}

type CatalogService struct {
	productRepo repository.ProductRepo
	s3Client    *s3.Client
	s3cfg       S3Config
}

// NewCatalogService wires the catalog. s3Client may be nil, in which case
// presigned uploads are unavailable.
func NewCatalogService(productRepo repository.ProductRepo, s3Client *s3.Client, s3cfg S3Config) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		s3Client:    s3Client,
		s3cfg:       s3cfg,
	}
}

func validateProductID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return apperrors.Validation("Invalid product ID", err)
	}
	return nil
}

func (s *CatalogService) mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Product not found")
	}
	return apperrors.Store(err)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if err := validateProductID(id); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.Find(ctx, repository.ProductFilter{
		Category: params.Category,
		Page:     params.Page,
		PerPage:  params.PerPage,
	})
	if err != nil {
		return nil, 0, apperrors.Store(err)
	}
	return products, total, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req ProductCreateRequest) (*models.Product, error) {
	now := time.Now().UTC()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
		Description: req.Description,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperrors.Store(err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	if err := validateProductID(id); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("No update fields provided", nil)
	}

	product, err := s.productRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := validateProductID(id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return s.mapRepoErr(err)
	}
	return nil
}

// AddReview appends an embedded review and refreshes the aggregate rating.
// Concurrent reviews race last-write-wins on the aggregate, matching the
// store's single-document semantics.
func (s *CatalogService) AddReview(ctx context.Context, id string, req ReviewRequest) (*models.Product, error) {
	if err := validateProductID(id); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Image:     req.Image,
		CreatedAt: time.Now().UTC(),
	}

	var sum int
	for _, r := range product.Reviews {
		sum += r.Rating
	}
	rating := float64(sum+review.Rating) / float64(len(product.Reviews)+1)

	updated, err := s.productRepo.AddReview(ctx, id, review, rating)
	if err != nil {
		return nil, s.mapRepoErr(err)
	}
	return updated, nil
}

// GeneratePresignedUpload hands out a presigned PUT URL for a product image.
func (s *CatalogService) GeneratePresignedUpload(ctx context.Context, filename, contentType string, expiry time.Duration) (*PresignedUpload, error) {
	if s.s3Client == nil {
		return nil, apperrors.Store(fmt.Errorf("image uploads are not configured"))
	}

	ext := path.Ext(filename)
	key := uuid.NewString() + ext
	if s.s3cfg.Prefix != "" {
		key = strings.TrimSuffix(s.s3cfg.Prefix, "/") + "/" + key
	}

	uploadURL, headers, err := awspkg.PresignPutObject(ctx, s.s3Client, s.s3cfg.Bucket, key, contentType, expiry)
	if err != nil {
		return nil, apperrors.Store(err)
	}

	return &PresignedUpload{
		UploadURL: uploadURL,
		Key:       key,
		PublicURL: awspkg.PublicObjectURL(s.s3cfg.Bucket, s.s3cfg.Region, s.s3cfg.Endpoint, s.s3cfg.CDNDomain, key),
		Headers:   headers,
	}, nil
}
