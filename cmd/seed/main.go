package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"job-portal-subscriptions/internal/config"
	pg "job-portal-subscriptions/internal/infra/db/postgres"
	"job-portal-subscriptions/internal/usecase"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
  code          TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  price         BIGINT NOT NULL,
  currency      TEXT NOT NULL,
  duration_days INT NOT NULL,
  features      TEXT[] NOT NULL DEFAULT '{}',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
  id                      TEXT PRIMARY KEY,
  email                   TEXT NOT NULL,
  full_name               TEXT NOT NULL DEFAULT '',
  is_admin                BOOLEAN NOT NULL DEFAULT FALSE,
  has_active_subscription BOOLEAN NOT NULL DEFAULT FALSE,
  subscription_id         TEXT,
  created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS subscriptions (
  id         TEXT PRIMARY KEY,
  order_id   TEXT NOT NULL UNIQUE,
  user_id    TEXT NOT NULL DEFAULT '',
  email      TEXT NOT NULL,
  full_name  TEXT NOT NULL DEFAULT '',
  plan       TEXT NOT NULL REFERENCES plans(code),
  amount     BIGINT NOT NULL,
  currency   TEXT NOT NULL,
  status     TEXT NOT NULL DEFAULT 'created',
  start_date TIMESTAMPTZ,
  end_date   TIMESTAMPTZ,
  payment_id TEXT,
  signature  TEXT,
  meta       JSONB,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payment_ledger (
  payment_id      TEXT PRIMARY KEY,
  order_id        TEXT NOT NULL,
  subscription_id TEXT NOT NULL,
  user_id         TEXT NOT NULL DEFAULT '',
  email           TEXT NOT NULL,
  full_name       TEXT NOT NULL DEFAULT '',
  amount          BIGINT NOT NULL,
  currency        TEXT NOT NULL,
  status          TEXT NOT NULL,
  payment_date    TIMESTAMPTZ NOT NULL,
  receipt_id      TEXT NOT NULL,
  meta            JSONB
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_status_end_date ON subscriptions (status, end_date);
`

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied")

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))
	n, err := planUC.EnsureDefaults(ctx)
	if err != nil {
		log.Fatalf("seed plans: %v", err)
	}
	if n == 0 {
		fmt.Println("plans already present, no changes")
		return
	}
	fmt.Printf("seeded %d plans\n", n)
}
