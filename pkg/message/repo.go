package message

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("messages"),
	}
}

func (r *MongoRepo) Create(msg *Message) error {
	ctx := context.TODO()

	msg.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		msg.MongoID = oid
		msg.ID = oid.Hex()
	} else {
		return errors.New("failed to convert inserted ID to ObjectID")
	}

	return nil
}

// Between returns the full conversation between two users, oldest first.
func (r *MongoRepo) Between(userA, userB string) ([]*Message, error) {
	ctx := context.TODO()

	filter := bson.M{"$or": bson.A{
		bson.M{"senderId": userA, "receiverId": userB},
		bson.M{"senderId": userB, "receiverId": userA},
	}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []*Message
	for cursor.Next(ctx) {
		var msg Message
		if err := cursor.Decode(&msg); err != nil {
			continue
		}
		msg.ID = msg.MongoID.Hex()
		msgs = append(msgs, &msg)
	}
	return msgs, cursor.Err()
}

func (r *MongoRepo) MarkSeen(id string) error {
	ctx := context.TODO()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid ID format")
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) MarkSeenFrom(senderID, receiverID string) error {
	ctx := context.TODO()

	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"senderId": senderID, "receiverId": receiverID, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	return err
}

func (r *MongoRepo) CountUnseen(senderID, receiverID string) (int64, error) {
	ctx := context.TODO()

	return r.collection.CountDocuments(ctx, bson.M{
		"senderId":   senderID,
		"receiverId": receiverID,
		"seen":       false,
	})
}
