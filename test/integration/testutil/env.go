package testutil

import (
	"os"
	"testing"
	"time"
)

const (
	DefaultHealthCheckTimeout = 30 * time.Second
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	SchedulesURL string
	BookingsURL  string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		SchedulesURL: getEnv("TEST_SCHEDULES_URL", "http://localhost:8081"),
		BookingsURL:  getEnv("TEST_BOOKINGS_URL", "http://localhost:8082"),
	}
}

// Setup connects to the database, wipes it and waits for both services.
func (e *TestEnv) Setup(t *testing.T) (mongo *MongoHelper, schedules, bookings *Client) {
	t.Helper()

	mongo = NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	schedules = NewClient(e.SchedulesURL)
	bookings = NewClient(e.BookingsURL)
	schedules.WaitForHealthy(t, DefaultHealthCheckTimeout)
	bookings.WaitForHealthy(t, DefaultHealthCheckTimeout)

	t.Cleanup(func() {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	})
	return mongo, schedules, bookings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
