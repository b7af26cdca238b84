// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sevakendra/regdesk/internal/app/store/docs"
	"github.com/sevakendra/regdesk/internal/app/system/indexes"
)

// Deps holds the database handles every command shares.
type Deps struct {
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Store       docs.Store
}

const connectTimeout = 10 * time.Second

// Connect opens the Mongo client, verifies connectivity with a ping, and
// wraps the database in the document store.
func Connect(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return Deps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return Deps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return Deps{
		MongoClient: client,
		MongoDB:     db,
		Store:       docs.NewMongoStore(db),
	}, nil
}

// EnsureSchema creates the indexes the stores depend on.
func EnsureSchema(ctx context.Context, deps Deps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDB)
}

// Shutdown cleanly tears down the database connection.
func Shutdown(ctx context.Context, deps Deps, logger *zap.Logger) error {
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
