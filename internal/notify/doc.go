// Package notify delivers operator notifications for ingest and lifecycle
// events. Admin chats receive messages through the gateway; an optional ntfy
// topic adds push delivery. All notifications are best effort.
package notify
