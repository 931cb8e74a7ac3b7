// Package counter keeps diagnostic counts of simulation objects.
//
// Every object kind that is reference counted or owned by a collaborator
// reports its construction and destruction. At the end of a run the two
// numbers must match; a mismatch is a leak or a double free.
package counter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ObjectType names a kind of simulation object.
type ObjectType string

// The object kinds the process layer reports.
const (
	ObjectProcess        ObjectType = "process"
	ObjectThread         ObjectType = "thread"
	ObjectTask           ObjectType = "task"
	ObjectSysCallHandler ObjectType = "syscallhandler"
	ObjectHost           ObjectType = "host"
)

// CounterType tells whether an object was created or destroyed.
type CounterType int

// The counter types.
const (
	CounterNew CounterType = iota
	CounterFree
)

func (c CounterType) String() string {
	switch c {
	case CounterNew:
		return "new"
	case CounterFree:
		return "free"
	default:
		return fmt.Sprintf("CounterType(%d)", int(c))
	}
}

type counts struct {
	new  uint64
	free uint64
}

// ObjectCounter counts object construction and destruction per object type.
type ObjectCounter struct {
	lock   sync.Mutex
	counts map[ObjectType]*counts
	types  []ObjectType
}

// NewObjectCounter creates an empty ObjectCounter.
func NewObjectCounter() *ObjectCounter {
	return &ObjectCounter{
		counts: make(map[ObjectType]*counts),
	}
}

// Count records one event of the given counter type for the object type.
func (c *ObjectCounter) Count(objType ObjectType, counterType CounterType) {
	c.lock.Lock()
	defer c.lock.Unlock()

	cnt, ok := c.counts[objType]
	if !ok {
		cnt = &counts{}
		c.counts[objType] = cnt
		c.types = append(c.types, objType)
	}

	switch counterType {
	case CounterNew:
		cnt.new++
	case CounterFree:
		cnt.free++
	default:
		panic(fmt.Sprintf("unknown counter type %s", counterType))
	}
}

// Get returns the number of recorded events.
func (c *ObjectCounter) Get(objType ObjectType, counterType CounterType) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	cnt, ok := c.counts[objType]
	if !ok {
		return 0
	}

	if counterType == CounterNew {
		return cnt.new
	}

	return cnt.free
}

// Live returns how many objects of the type are created but not freed.
func (c *ObjectCounter) Live(objType ObjectType) int64 {
	return int64(c.Get(objType, CounterNew)) - int64(c.Get(objType, CounterFree))
}

// Leaks returns the object types whose new and free counts differ, sorted
// by name.
func (c *ObjectCounter) Leaks() []ObjectType {
	c.lock.Lock()
	defer c.lock.Unlock()

	leaks := []ObjectType{}
	for t, cnt := range c.counts {
		if cnt.new != cnt.free {
			leaks = append(leaks, t)
		}
	}

	sort.Slice(leaks, func(i, j int) bool { return leaks[i] < leaks[j] })

	return leaks
}

// Snapshot returns the new and free counts keyed by object type name.
func (c *ObjectCounter) Snapshot() map[string][2]uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	s := make(map[string][2]uint64, len(c.counts))
	for t, cnt := range c.counts {
		s[string(t)] = [2]uint64{cnt.new, cnt.free}
	}

	return s
}

// String summarizes the counts in registration order.
func (c *ObjectCounter) String() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	sb := strings.Builder{}
	sb.WriteString("ObjectCounter: ")
	for i, t := range c.types {
		if i > 0 {
			sb.WriteString(", ")
		}

		cnt := c.counts[t]
		fmt.Fprintf(&sb, "%s new=%d free=%d", t, cnt.new, cnt.free)
	}

	return sb.String()
}
