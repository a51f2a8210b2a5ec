// Package ingest records channel uploads as catalog episodes.
package ingest
