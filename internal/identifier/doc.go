// Package identifier derives canonical episode codes from raw upload titles.
//
// A code encodes show slug, season, episode, and quality in a stable, URL-safe
// form such as "devil-may-cry-s1-ep5-1080p". Derivation is a staged pipeline:
// strip extension, extract quality, strip bracket groups and @handles, extract
// season/episode, slugify the remainder, compose. Derive is total and
// deterministic, which makes re-ingestion of the same upload idempotent at the
// catalog layer. Parse recovers the components from a code.
package identifier
