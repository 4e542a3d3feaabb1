// Package ddb implements the repository interface using AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
package ddb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"todo-backend/internal/domain"
	"todo-backend/internal/repository"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// todoItem is the shape of a todo in the table. userId is the partition key
// and todoId the sort key.
type todoItem struct {
	UserID        string `dynamodbav:"userId"`
	TodoID        string `dynamodbav:"todoId"`
	CreatedAt     string `dynamodbav:"createdAt"`
	Name          string `dynamodbav:"name"`
	DueDate       string `dynamodbav:"dueDate"`
	Done          bool   `dynamodbav:"done"`
	Note          string `dynamodbav:"note"`
	AttachmentURL string `dynamodbav:"attachmentUrl,omitempty"`
	Version       int    `dynamodbav:"version"`
}

func toItem(t domain.Todo) todoItem {
	return todoItem{
		UserID:        t.UserID,
		TodoID:        t.TodoID,
		CreatedAt:     t.CreatedAt,
		Name:          t.Name,
		DueDate:       t.DueDate,
		Done:          t.Done,
		Note:          t.Note,
		AttachmentURL: t.AttachmentURL,
		Version:       t.Version,
	}
}

func (i todoItem) toDomain() domain.Todo {
	return domain.Todo{
		TodoID:        i.TodoID,
		UserID:        i.UserID,
		CreatedAt:     i.CreatedAt,
		Name:          i.Name,
		DueDate:       i.DueDate,
		Done:          i.Done,
		Note:          i.Note,
		AttachmentURL: i.AttachmentURL,
		Version:       i.Version,
	}
}

// Store is the DynamoDB-backed TodoRepository.
type Store struct {
	client DynamoDBAPI
	config repository.Config
	logger *zap.Logger
}

var _ repository.TodoRepository = (*Store)(nil)

// NewStore creates a new instance of the DynamoDB repository.
func NewStore(client DynamoDBAPI, config repository.Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		config: config.WithDefaults(),
		logger: logger,
	}
}

func key(userID, todoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"todoId": &types.AttributeValueMemberS{Value: todoID},
	}
}

// Create stores the todo with a single unconditional PutItem.
func (s *Store) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	item, err := attributevalue.MarshalMap(toItem(todo))
	if err != nil {
		return domain.Todo{}, repository.NewStoreError("Create", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return domain.Todo{}, s.storeError("Create", err)
	}
	return todo, nil
}

// ListByUser queries the user's partition, following pagination until the
// result set is complete.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, repository.NewStoreError("ListByUser", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if s.config.IndexName != "" {
		input.IndexName = aws.String(s.config.IndexName)
	}
	if s.config.QueryPageLimit > 0 {
		input.Limit = aws.Int32(s.config.QueryPageLimit)
	}

	todos := make([]domain.Todo, 0)
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.storeError("ListByUser", err)
		}

		var items []todoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, repository.NewStoreError("ListByUser", err)
		}
		for _, item := range items {
			todos = append(todos, item.toDomain())
		}
	}
	return todos, nil
}

// UpdateFull replaces name, dueDate and done and bumps the version. The item
// must exist, and must carry the expected version when one is given.
func (s *Store) UpdateFull(ctx context.Context, userID, todoID string, update domain.TodoUpdate) error {
	upd := expression.Set(expression.Name("name"), expression.Value(update.Name)).
		Set(expression.Name("dueDate"), expression.Value(update.DueDate)).
		Set(expression.Name("done"), expression.Value(update.Done))

	return s.conditionalUpdate(ctx, "UpdateFull", userID, todoID, upd, update.ExpectedVersion)
}

// UpdateNote replaces the note and bumps the version. The item must exist.
func (s *Store) UpdateNote(ctx context.Context, userID, todoID, note string) error {
	upd := expression.Set(expression.Name("note"), expression.Value(note))
	return s.conditionalUpdate(ctx, "UpdateNote", userID, todoID, upd, nil)
}

func (s *Store) conditionalUpdate(ctx context.Context, op, userID, todoID string, upd expression.UpdateBuilder, expectedVersion *int) error {
	upd = upd.Add(expression.Name("version"), expression.Value(1))

	cond := expression.AttributeExists(expression.Name("todoId"))
	if expectedVersion != nil {
		cond = cond.And(expression.Name("version").Equal(expression.Value(*expectedVersion)))
	}

	expr, err := expression.NewBuilder().WithUpdate(upd).WithCondition(cond).Build()
	if err != nil {
		return repository.NewStoreError(op, err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(s.config.TableName),
		Key:                                 key(userID, todoID),
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		// The old item comes back only when it exists, so an empty item
		// means the key matched nothing.
		if len(ccf.Item) == 0 || expectedVersion == nil {
			return repository.NewNotFound(userID, todoID)
		}
		return repository.NewConflict(todoID, "version mismatch")
	}
	return s.storeError(op, err)
}

// Delete removes the item with an unconditional DeleteItem.
func (s *Store) Delete(ctx context.Context, userID, todoID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       key(userID, todoID),
	})
	if err != nil {
		return s.storeError("Delete", err)
	}
	return nil
}

func (s *Store) storeError(op string, err error) error {
	fields := []zap.Field{zap.String("operation", op), zap.String("table", s.config.TableName), zap.Error(err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("errorCode", apiErr.ErrorCode()), zap.String("fault", apiErr.ErrorFault().String()))
	}
	s.logger.Error("dynamodb call failed", fields...)
	return repository.NewStoreError(op, err)
}
