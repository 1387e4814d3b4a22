// Package managepatrons implements registering patrons, changing their details and removing them.
//
// A patron with an open loan can't be removed.
package managepatrons
