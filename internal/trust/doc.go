// Package trust holds the registry of Groundwork Trust websites.
//
// The registry maps each trust site URL to its abbreviation and display name.
// The known network is built in; a YAML file can replace it for runs that
// target a different or reduced set of sites.
package trust
