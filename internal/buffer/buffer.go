/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package buffer

// DefaultCap is the maximum number of lines kept in memory and on disk.
const DefaultCap = 1000

// Buffer holds the most recent raw lines in insertion order. Eviction is
// FIFO once the capacity is exceeded.
type Buffer struct {
	lines []string
	start int
	cap   int
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Buffer{
		lines: make([]string, 0, capacity),
		cap:   capacity,
	}
}

// Append adds line, dropping the oldest one on overflow.
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
	if len(b.lines)-b.start > b.cap {
		b.lines[b.start] = ""
		b.start++
	}

	// compact once the dead prefix outgrows the live window
	if b.start >= b.cap {
		live := make([]string, b.Len(), 2*b.cap)
		copy(live, b.lines[b.start:])
		b.lines = live
		b.start = 0
	}
}

// Reset replaces the contents with the last Cap() entries of lines.
func (b *Buffer) Reset(lines []string) {
	b.Clear()
	for _, line := range Tail(lines, b.cap) {
		b.Append(line)
	}
}

func (b *Buffer) Clear() {
	b.lines = make([]string, 0, b.cap)
	b.start = 0
}

func (b *Buffer) Len() int {
	return len(b.lines) - b.start
}

func (b *Buffer) Cap() int {
	return b.cap
}

// Snapshot returns a copy of the buffered lines, oldest first.
func (b *Buffer) Snapshot() []string {
	out := make([]string, b.Len())
	copy(out, b.lines[b.start:])
	return out
}

// Tail returns the last n elements of lines.
func Tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
