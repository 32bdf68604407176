// Package filter narrows movie listings with expr-lang expressions.
//
// Expressions see the movie's fields directly and a set of helpers:
//
//	VoteAverage >= 7 and Year > 2020
//	hasGenre("Horror") or hasGenre(878)
//	contains(Title, "star") and not Adult
//	releasedAfter(yearsAgo(2)) and VoteCount > 500
//
// Compiled filters are cached and safe for concurrent use. A Manager holds
// named presets loaded from configuration.
package filter
