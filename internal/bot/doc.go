// Package bot routes inbound updates to ingestion and gated delivery.
package bot
