// Package services holds the catalog collaborators: the search client that
// turns query strings into candidate track URLs and the fetch client that
// scrapes a track page into structured release fields.
//
// Both collaborators share one rate limiter and one cache so concurrent
// track workers cannot hammer the catalog, and both treat the cache as
// best-effort: a cache failure degrades to a live request, never an error.
package services
