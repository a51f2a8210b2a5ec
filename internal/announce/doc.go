// Package announce posts digests of newly stored episodes to a public chat.
package announce
