package config

import (
	"reflect"
	"testing"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	if cfg.Store.Driver != "postgres" {
		t.Errorf("Store.Driver = %q, want postgres", cfg.Store.Driver)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled = true, want false by default")
	}
	if cfg.Elastic.Index != "stock_items" {
		t.Errorf("Elastic.Index = %q, want stock_items", cfg.Elastic.Index)
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadEnv()

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Postgres.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want 25", cfg.Postgres.MaxOpenConns)
	}
	if !cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled = false, want true")
	}
	if want := []string{"k1:9092", "k2:9092"}; !reflect.DeepEqual(cfg.Kafka.Brokers, want) {
		t.Errorf("Kafka.Brokers = %v, want %v", cfg.Kafka.Brokers, want)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("Redis.DB = %d, want fallback 0", cfg.Redis.DB)
	}
}
