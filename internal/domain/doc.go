// Package domain defines the core business entities of the contacts
// application: users with their authentication lifecycle, and the contacts
// they own.
package domain
