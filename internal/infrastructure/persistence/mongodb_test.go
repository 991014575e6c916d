package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMongoClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts MongoOptions
	}{
		{
			name: "empty database",
			opts: MongoOptions{URI: "mongodb://127.0.0.1:1"},
		},
		{
			name: "malformed uri",
			opts: MongoOptions{URI: "not-a-mongo-uri", Database: "uas"},
		},
		{
			name: "unreachable server",
			opts: MongoOptions{URI: "mongodb://127.0.0.1:1", Database: "uas", ServerSelectionTimeout: 200 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, db, err := NewMongoClient(context.Background(), tt.opts)
			assert.Error(t, err)
			assert.Nil(t, client)
			assert.Nil(t, db)
		})
	}
}
