package db

import (
	"testing"
	"time"
)

func TestPoolDefaults(t *testing.T) {
	p := Pool{}.withDefaults()
	if p.MaxOpenConns != defaultMaxOpenConns || p.MaxIdleConns != defaultMaxIdleConns {
		t.Fatalf("expected default pool sizing, got %+v", p)
	}
	if p.ConnMaxLifetime != defaultConnLifetime || p.PingTimeout != defaultPingTimeout {
		t.Fatalf("expected default timeouts, got %+v", p)
	}
}

func TestPoolOverridesKept(t *testing.T) {
	p := Pool{MaxOpenConns: 3, MaxIdleConns: 2, PingTimeout: time.Second}.withDefaults()
	if p.MaxOpenConns != 3 || p.MaxIdleConns != 2 || p.PingTimeout != time.Second {
		t.Fatalf("explicit pool settings must survive, got %+v", p)
	}
	if p.ConnMaxLifetime != defaultConnLifetime {
		t.Fatalf("unset fields must still default, got %+v", p)
	}
}

func TestNewPostgresDBRejectsEmptyDSN(t *testing.T) {
	if _, err := NewPostgresDB("  ", Pool{}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
