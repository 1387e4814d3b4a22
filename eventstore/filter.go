package eventstore

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"
	"time"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter describes a "dynamic event stream": all events matching ANY of its items,
// optionally restricted to an occurred_at time window and/or to sequence numbers above a threshold.
type Filter struct {
	items                    []FilterItem
	occurredFrom             time.Time
	occurredUntil            time.Time
	sequenceNumberHigherThan MaxSequenceNumberUint
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// OccurredFrom returns the inclusive lower bound for occurred_at, zero if unbounded.
func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

// OccurredUntil returns the inclusive upper bound for occurred_at, zero if unbounded.
func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// SequenceNumberHigherThan returns the exclusive lower bound for sequence numbers, 0 if unbounded.
func (f Filter) SequenceNumberHigherThan() MaxSequenceNumberUint {
	return f.sequenceNumberHigherThan
}

// ReopenForSequenceFiltering allows adding a sequence number constraint to an already finalized Filter.
// It is meant for incremental (snapshot based) queries. Never append with such a filter,
// the max sequence number it yields is not the one of the whole "dynamic event stream".
func (f Filter) ReopenForSequenceFiltering() SequenceFilteringCapable {
	return filterBuilder{filter: f}
}

// Hash returns a stable identifier of the filter criteria, used to key snapshots.
// The sequence number constraint is not part of the hash, so a reopened filter hashes like its original.
func (f Filter) Hash() string {
	var b strings.Builder

	for _, item := range f.items {
		b.WriteString("item[")
		b.WriteString(strings.Join(item.eventTypes, ","))
		b.WriteString("|")
		for _, p := range item.predicates {
			b.WriteString(p.key + "=" + p.val + ",")
		}
		b.WriteString("|" + strconv.FormatBool(item.allPredicatesMustMatch) + "]")
	}

	if !f.occurredFrom.IsZero() {
		b.WriteString("from:" + f.occurredFrom.UTC().Format(time.RFC3339Nano))
	}

	if !f.occurredUntil.IsZero() {
		b.WriteString("until:" + f.occurredUntil.UTC().Format(time.RFC3339Nano))
	}

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) isEmpty() bool {
	return len(fi.eventTypes) == 0 && len(fi.predicates) == 0
}

/***** FilterPredicate *****/

type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter to be used in DB type-specific eventstore implementations to build queries for
// the specific query language, e.g.: Postgres, SQLite, in-memory, ...
// It is designed with the idea to only allow "useful" filter combinations for event-sourced workflows:
//
//   - empty filter
//   - (eventType)
//   - (eventType OR eventType...)
//   - (predicate)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - (eventType AND predicate)
//   - (eventType AND (predicate OR predicate...))
//   - (eventType AND (predicate AND predicate...))
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - ((eventType AND predicate) OR (eventType AND predicate)...) -> multiple FilterItem(s)
//
// Each of those can be restricted further with OccurredFrom and/or OccurredUntil.
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter

	// OccurredFrom sets the inclusive lower occurred_at bound for a filter without items.
	OccurredFrom(occurredAtFrom time.Time) FilterBuilderWithOccurredFrom

	// OccurredUntil sets the inclusive upper occurred_at bound for a filter without items.
	OccurredUntil(occurredAtUntil time.Time) FinalizableFilterBuilder

	// WithSequenceNumberHigherThan restricts a filter without items to events above the given sequence number.
	WithSequenceNumberHigherThan(sequenceNumber MaxSequenceNumberUint) FinalizableFilterBuilder
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty EventTypes ("")
	//	- sorting the EventTypes
	//	- removing duplicate EventTypes
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	CompletedFilterItemBuilder
}

type FilterItemBuilderLackingEventTypes interface {
	// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder

	CompletedFilterItemBuilder
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// OccurredFrom sets the inclusive lower occurred_at bound.
	OccurredFrom(occurredAtFrom time.Time) FilterBuilderWithOccurredFrom

	// OccurredUntil sets the inclusive upper occurred_at bound.
	OccurredUntil(occurredAtUntil time.Time) FinalizableFilterBuilder

	// WithSequenceNumberHigherThan restricts the filter to events above the given sequence number.
	WithSequenceNumberHigherThan(sequenceNumber MaxSequenceNumberUint) FinalizableFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type FilterBuilderWithOccurredFrom interface {
	// AndOccurredUntil sets the inclusive upper occurred_at bound.
	AndOccurredUntil(occurredAtUntil time.Time) FinalizableFilterBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

// SequenceFilteringCapable is returned by Filter.ReopenForSequenceFiltering.
type SequenceFilteringCapable interface {
	WithSequenceNumberHigherThan(sequenceNumber MaxSequenceNumberUint) FinalizableFilterBuilder
}

type FinalizableFilterBuilder interface {
	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = fb.sanitizeEventTypes(
		append(slices.Clone(fb.currentFilterItem.eventTypes), append([]FilterEventTypeString{eventType}, eventTypes...)...),
	)

	return fb
}

// AndAnyEventTypeOf adds one or multiple EventTypes to the current FilterItem expecting ANY EventType to match.
func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

func (fb filterBuilder) sanitizeEventTypes(allEventTypes []FilterEventTypeString) []FilterEventTypeString {
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e FilterEventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = fb.sanitizePredicates(
		append(slices.Clone(fb.currentFilterItem.predicates), append([]FilterPredicate{predicate}, predicates...)...),
	)

	return fb
}

// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AndAllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) sanitizePredicates(allPredicates []FilterPredicate) []FilterPredicate {
	allPredicates = slices.DeleteFunc(allPredicates, func(e FilterPredicate) bool { return len(e.key) == 0 || len(e.val) == 0 })
	slices.SortFunc(
		allPredicates,
		func(a, b FilterPredicate) int {
			if a.key != b.key {
				if a.key > b.key {
					return 1
				}

				return -1
			}

			if a.val > b.val {
				return 1
			}

			if a.val < b.val {
				return -1
			}

			return 0
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// MatchingAnyEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

// OccurredFrom sets the inclusive lower occurred_at bound.
func (fb filterBuilder) OccurredFrom(occurredAtFrom time.Time) FilterBuilderWithOccurredFrom {
	fb.filter.occurredFrom = occurredAtFrom

	return fb
}

// OccurredUntil sets the inclusive upper occurred_at bound.
func (fb filterBuilder) OccurredUntil(occurredAtUntil time.Time) FinalizableFilterBuilder {
	fb.filter.occurredUntil = occurredAtUntil

	return fb
}

// AndOccurredUntil sets the inclusive upper occurred_at bound.
func (fb filterBuilder) AndOccurredUntil(occurredAtUntil time.Time) FinalizableFilterBuilder {
	return fb.OccurredUntil(occurredAtUntil)
}

// WithSequenceNumberHigherThan restricts the filter to events with a sequence number above the given one.
func (fb filterBuilder) WithSequenceNumberHigherThan(sequenceNumber MaxSequenceNumberUint) FinalizableFilterBuilder {
	fb.filter.sequenceNumberHigherThan = sequenceNumber

	return fb
}

// Finalize returns the Filter. An empty current FilterItem is dropped.
func (fb filterBuilder) Finalize() Filter {
	if !fb.currentFilterItem.isEmpty() {
		fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	}

	return fb.filter
}
