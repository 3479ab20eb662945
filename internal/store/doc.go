// Package store provides SQL-backed storage for mail delivery statuses and
// notification user filters.
//
// SQLite is the default backend. PostgreSQL and MySQL are supported through
// OpenDSN; queries are written with ? placeholders and rebound per dialect.
//
// # Tables
//
//   - mail_status: one row per message, keyed by message id
//   - notification_user_filters: authors each user excluded, per format
//
// # Ordering
//
// Status queries order by mail_date then message_id so results are stable
// when several mails share a timestamp.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
