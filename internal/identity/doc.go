// Package identity stores registered users and validates registration forms.
//
// Users live in a single durable document ([repositories.KeyUsers]) as an ordered list.
// Usernames are unique and compared case-sensitively. Passwords are stored verbatim.
package identity
