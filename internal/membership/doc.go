// Package membership gates delivery on required-channel subscriptions.
package membership
