// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	if mongoURI == "" {
		env := os.Getenv("ENV")
		if env == "development" || env == "dev" {
			mongoURI = "mongodb://localhost:27017/?replicaSet=rs0"
		} else {
			log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DBName returns the database name, defaulting to "estateflow".
func DBName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "estateflow"
	}
	return dbName
}

// GetCollection returns MongoDB collection
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DBName()).Collection(collectionName)
}

// setupCollections ensures all necessary collections and indexes exist.
// The unique index on customers.email is load-bearing: the settlement
// engine's duplicate-customer check runs outside its transaction, and
// this index is what turns a lost race into a clean transaction abort
// instead of a duplicate customer.
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DBName())

	collections := []string{
		"users", "partnerProfiles", "catalogs", "enquiries",
		"payables", "receivables", "wallet", "customers", "supportTickets",
	}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	uniqueIndexes := map[string]string{
		"users":     "email",
		"customers": "email",
		"catalogs":  "code",
		"enquiries": "enquiryCode",
	}
	for collName, field := range uniqueIndexes {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := db.Collection(collName).Indexes().CreateOne(ctx, indexModel); err != nil {
			log.Printf("Error creating %s.%s index: %v", collName, field, err)
		}
	}

	// Non-unique lookup indexes for the list endpoints.
	lookupIndexes := map[string]string{
		"enquiries":       "status",
		"partnerProfiles": "userId",
		"payables":        "recipientId",
		"receivables":     "partnerId",
	}
	for collName, field := range lookupIndexes {
		indexModel := mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		}
		if _, err := db.Collection(collName).Indexes().CreateOne(ctx, indexModel); err != nil {
			log.Printf("Error creating %s.%s index: %v", collName, field, err)
		}
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
