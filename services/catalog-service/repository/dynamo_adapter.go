package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumora-candles/backend/services/catalog-service/models"
)

// DynamoProductRepo is an alternative ProductRepo backend keyed by the hex
// product id. The catalog is small enough that listings go through Scan.
type DynamoProductRepo struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoProductRepo(client *dynamodb.Client, table string) *DynamoProductRepo {
	return &DynamoProductRepo{client: client, table: table}
}

type ddbReview struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Rating    int    `dynamodbav:"rating"`
	Comment   string `dynamodbav:"comment"`
	Image     string `dynamodbav:"image,omitempty"`
	CreatedAt string `dynamodbav:"created_at"`
}

type ddbProduct struct {
	ProductID   string      `dynamodbav:"product_id"`
	Name        string      `dynamodbav:"name"`
	Price       float64     `dynamodbav:"price"`
	Category    string      `dynamodbav:"category"`
	Image       string      `dynamodbav:"image"`
	Stock       int         `dynamodbav:"stock"`
	Description string      `dynamodbav:"description"`
	Rating      float64     `dynamodbav:"rating"`
	Reviews     []ddbReview `dynamodbav:"reviews,omitempty"`
	CreatedAt   string      `dynamodbav:"created_at"`
	UpdatedAt   string      `dynamodbav:"updated_at"`
}

func toDDB(p *models.Product) ddbProduct {
	dp := ddbProduct{
		ProductID:   p.ID.Hex(),
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		Description: p.Description,
		Rating:      p.Rating,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, r := range p.Reviews {
		dp.Reviews = append(dp.Reviews, ddbReview{
			ID:        r.ID.Hex(),
			Name:      r.Name,
			Rating:    r.Rating,
			Comment:   r.Comment,
			Image:     r.Image,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return dp
}

func fromDDB(dp ddbProduct) models.Product {
	p := models.Product{
		Name:        dp.Name,
		Price:       dp.Price,
		Category:    dp.Category,
		Image:       dp.Image,
		Stock:       dp.Stock,
		Description: dp.Description,
		Rating:      dp.Rating,
		Reviews:     []models.Review{},
	}
	p.ID, _ = primitive.ObjectIDFromHex(dp.ProductID)
	if t, err := time.Parse(time.RFC3339Nano, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	for _, r := range dp.Reviews {
		review := models.Review{
			Name:    r.Name,
			Rating:  r.Rating,
			Comment: r.Comment,
			Image:   r.Image,
		}
		review.ID, _ = primitive.ObjectIDFromHex(r.ID)
		if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
			review.CreatedAt = t
		}
		p.Reviews = append(p.Reviews, review)
	}
	return p
}

func (d *DynamoProductRepo) key(id string) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(map[string]string{"product_id": id})
}

func (d *DynamoProductRepo) getItem(ctx context.Context, id string) (*ddbProduct, error) {
	key, err := d.key(id)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &dp, nil
}

func (d *DynamoProductRepo) putItem(ctx context.Context, dp ddbProduct) error {
	item, err := attributevalue.MarshalMap(dp)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: item}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	dp, err := d.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	p := fromDDB(*dp)
	return &p, nil
}

func (d *DynamoProductRepo) Find(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	input := &dynamodb.ScanInput{TableName: &d.table}
	if filter.Category != "" {
		input.FilterExpression = aws.String("category = :cat")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":cat": &types.AttributeValueMemberS{Value: filter.Category},
		}
	}

	products := []models.Product{}
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		var dps []ddbProduct
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &dps); err != nil {
			return nil, 0, fmt.Errorf("unmarshal scan page: %w", err)
		}
		for _, dp := range dps {
			products = append(products, fromDDB(dp))
		}
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	total := int64(len(products))

	if filter.PerPage > 0 {
		start := (filter.Page - 1) * filter.PerPage
		if start >= len(products) {
			return []models.Product{}, total, nil
		}
		end := start + filter.PerPage
		if end > len(products) {
			end = len(products)
		}
		products = products[start:end]
	}
	return products, total, nil
}

func (d *DynamoProductRepo) Create(ctx context.Context, product *models.Product) error {
	return d.putItem(ctx, toDDB(product))
}

// Update is read-merge-write; catalog writes come from the single admin
// surface, so the unconditional put is acceptable.
func (d *DynamoProductRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*models.Product, error) {
	dp, err := d.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	for k, v := range updates {
		switch k {
		case "name":
			if s, ok := v.(string); ok {
				dp.Name = s
			}
		case "price":
			if f, ok := v.(float64); ok {
				dp.Price = f
			}
		case "category":
			if s, ok := v.(string); ok {
				dp.Category = s
			}
		case "image":
			if s, ok := v.(string); ok {
				dp.Image = s
			}
		case "stock":
			if n, ok := v.(int); ok {
				dp.Stock = n
			}
		case "description":
			if s, ok := v.(string); ok {
				dp.Description = s
			}
		}
	}
	dp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if err := d.putItem(ctx, *dp); err != nil {
		return nil, err
	}
	p := fromDDB(*dp)
	return &p, nil
}

func (d *DynamoProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := d.getItem(ctx, id); err != nil {
		return err
	}

	key, err := d.key(id)
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if _, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &d.table, Key: key}); err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func (d *DynamoProductRepo) AddReview(ctx context.Context, id string, review models.Review, rating float64) (*models.Product, error) {
	dp, err := d.getItem(ctx, id)
	if err != nil {
		return nil, err
	}

	dp.Reviews = append(dp.Reviews, ddbReview{
		ID:        review.ID.Hex(),
		Name:      review.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Image:     review.Image,
		CreatedAt: review.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	dp.Rating = rating
	dp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	if err := d.putItem(ctx, *dp); err != nil {
		return nil, err
	}
	p := fromDDB(*dp)
	return &p, nil
}
