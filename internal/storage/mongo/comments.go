package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/post-comment-service/internal/models"
	"github.com/pribylovaa/post-comment-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ storage.Storage = (*Mongo)(nil)

// commentDoc - представление комментария в коллекции.
// Имена полей совпадают с уже существующими документами коллекции comments.
type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	PostID    string             `bson:"postId"`
	Body      string             `bson:"comment"`
	CreatedAt time.Time          `bson:"dateCreated"`
}

func toDoc(oid primitive.ObjectID, c models.Comment) commentDoc {
	return commentDoc{
		ID:        oid,
		PostID:    c.PostID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func (d commentDoc) toModel() models.Comment {
	return models.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID,
		Body:      d.Body,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// parseID разбирает строковый id; некорректный формат трактуется как «нет такой записи».
func parseID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return oid, nil
}

// Save вставляет новый комментарий (пустой ID) или заменяет существующий документ.
func (m *Mongo) Save(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/Save"

	if strings.TrimSpace(comm.ID) == "" {
		oid := primitive.NewObjectID()
		if _, err := m.comments.InsertOne(ctx, toDoc(oid, comm)); err != nil {
			return nil, fmt.Errorf("%s: insert: %w", op, err)
		}

		comm.ID = oid.Hex()
		return &comm, nil
	}

	oid, err := parseID(op, comm.ID)
	if err != nil {
		return nil, err
	}

	res, err := m.comments.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, toDoc(oid, comm))
	if err != nil {
		return nil, fmt.Errorf("%s: replace: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	comm.ID = oid.Hex()
	return &comm, nil
}

// CommentByID возвращает комментарий по идентификатору.
// Если запись не найдена - storage.ErrNotFound.
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// ListByPost возвращает комментарии поста в порядке вставки (_id ASC).
// Skip/Limit уходят в запрос, сервис не материализует лишнего.
func (m *Mongo) ListByPost(ctx context.Context, postID string, p models.ListParams) ([]models.Comment, error) {
	const op = "storage/mongo/ListByPost"

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if p.Skip > 0 {
		findOpts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		findOpts.SetLimit(p.Limit)
	}

	cur, err := m.comments.Find(ctx, bson.D{{Key: "postId", Value: postID}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// Delete физически удаляет документ. Если удалять нечего - storage.ErrNotFound.
func (m *Mongo) Delete(ctx context.Context, comm models.Comment) error {
	const op = "storage/mongo/Delete"

	oid, err := parseID(op, comm.ID)
	if err != nil {
		return err
	}

	res, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteMany удаляет документы по списку _id переданных комментариев.
// Записи, появившиеся после выборки, не затрагиваются.
func (m *Mongo) DeleteMany(ctx context.Context, comments []models.Comment) error {
	const op = "storage/mongo/DeleteMany"

	ids := make(bson.A, 0, len(comments))
	for _, c := range comments {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.ID))
		if err != nil {
			continue
		}
		ids = append(ids, oid)
	}

	if len(ids) == 0 {
		return nil
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	if _, err := m.comments.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
