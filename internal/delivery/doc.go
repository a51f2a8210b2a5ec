// Package delivery forwards episodes to users and schedules their deletion.
//
// The reaper is an explicit delayed queue rather than loose timers: entries
// sit in a min-heap, one goroutine fires them at their deadlines, and Stop
// gives shutdown a single well-defined point. Deletion is best effort by
// design; the only guarantee is that each entry fires once, independently of
// every other entry's outcome.
package delivery
