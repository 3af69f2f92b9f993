package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoStore struct {
	URI    string
	DBName string

	client    *mongo.Client
	cooldowns *mongo.Collection
	closed    *mongo.Collection
}

type mongoCooldown struct {
	UserID string `bson:"user_id"`
	LastMS int64  `bson:"last_ms"`
}

func (m *MongoStore) Init() error {
	if m.URI == "" || m.DBName == "" {
		return fmt.Errorf("database.mongodb.uri and database.mongodb.database must be set to use driver=mongodb")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(m.URI))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(m.DBName)
	m.client = client
	m.cooldowns = db.Collection("ticket_cooldowns")
	m.closed = db.Collection("closed_tickets")
	log.Printf("[DB] MongoDB initialised (database %s)", m.DBName)
	return nil
}

func (m *MongoStore) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) GetCooldown(userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var rec mongoCooldown
	err := m.cooldowns.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.LastMS, nil
}

func (m *MongoStore) SetCooldown(userID string, ms int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.cooldowns.ReplaceOne(ctx,
		bson.M{"user_id": userID},
		mongoCooldown{UserID: userID, LastMS: ms},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *MongoStore) AddClosedTicket(rec ClosedTicket) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := m.closed.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	rec.ID = int(n) + 1
	_, err = m.closed.InsertOne(ctx, rec)
	return err
}

func (m *MongoStore) GetClosedTickets(limit int) ([]ClosedTicket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := m.closed.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "id", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []ClosedTicket
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
