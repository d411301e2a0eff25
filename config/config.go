package config

import (
	"context"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config carries everything handlers need: parsed environment plus the
// shared Mongo client. Handlers are closures over *Config.
type Config struct {
	Port       string `envconfig:"PORT" default:"5000"`
	MongoURI   string `envconfig:"MONGO_URI" required:"true"`
	DBName     string `envconfig:"MONGO_DB" default:"nss_portal"`
	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpMin  int    `envconfig:"JWT_EXP_MIN" default:"1440"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	MongoClient *mongo.Client `ignored:"true"`
}

// Load parses the environment and connects to MongoDB.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	cfg.MongoClient = client

	log.Println("Connected to MongoDB:", cfg.DBName)
	return &cfg, nil
}

// Collection is a shorthand for the named collection in the configured database.
func (c *Config) Collection(name string) *mongo.Collection {
	return c.MongoClient.Database(c.DBName).Collection(name)
}
