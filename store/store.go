// Package store keeps analysis reports by content address so the same
// input is never analyzed twice and reports can be fetched later.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jsphweid/harmonycheck/config"
	"github.com/jsphweid/harmonycheck/model"
)

type Store interface {
	Get(id string) (*model.StoredReport, bool, error)
	Put(id string, r model.StoredReport) error
	Count() (int, error)
	Close() error
}

// ID is the report id of an input: the hex sha256 of its bytes followed
// by each variant, so the same bytes analyzed under other settings get
// another id.
func ID(data []byte, variant ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, v := range variant {
		h.Write([]byte{0})
		h.Write([]byte(v))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Open picks the backend from cfg. A nil Store with a nil error means
// storage is turned off.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		return NewSQLite(cfg.StorePath)
	case config.StoreDynamo:
		return NewDynamo(cfg.DynamoDBEndpoint, cfg.DynamoDBRegion, cfg.DynamoDBTable)
	case config.StoreNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
