package logger

import (
	"context"
	"fmt"
	"time"

	"go-reports/internal/config"
	"go-reports/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level       zapcore.Level
	Message     string
	TenantID    string
	DashboardID string
	Caller      string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(db *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		collection: db.DB.Collection("logs"),
		logChan:    make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:      cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop the log instead of blocking the API
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		doc := bson.M{
			"app_id":     w.appId,
			"level":      entry.Level.String(),
			"message":    entry.Message,
			"caller":     entry.Caller,
			"created_at": time.Now(),
		}
		if entry.TenantID != "" {
			doc["tenant_id"] = entry.TenantID
		}
		if entry.DashboardID != "" {
			doc["dashboard_id"] = entry.DashboardID
		}

		if _, err := w.collection.InsertOne(ctx, doc); err != nil {
			fmt.Println("Failed to persist log entry:", err)
		}
		cancel()
	}
}
