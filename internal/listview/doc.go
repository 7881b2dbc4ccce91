// Package listview keeps a remote, paginated, sortable and searchable
// collection in sync with a URL.
//
// A Controller owns the ListQuery of one screen. Handlers turn user intents
// into a new ListQuery and push it to the screen's Location; the Location
// subscription issues the fetch through an Orchestrator, which applies only
// the result of the most recently issued request. Deletes run through a
// DeleteCoordinator that confirms, mutates, refetches and steps back a page
// when the current one was emptied.
package listview
